package network

import "math"

// Activation identifies a hidden-layer activation function.
type Activation int

const (
	// ActivationReLU is the rectified linear unit: max(0, x).
	ActivationReLU Activation = iota
	// ActivationTanh is the hyperbolic tangent.
	ActivationTanh
	// ActivationSigmoid is the logistic function 1/(1+exp(-x)).
	ActivationSigmoid
)

// ActivationFromTag maps a configuration tag to an Activation.
// Unknown tags resolve to ReLU; the fallback is an explicit branch so
// configuration sweeps over free-form tags stay well defined.
func ActivationFromTag(tag string) Activation {
	switch tag {
	case "relu":
		return ActivationReLU
	case "tanh":
		return ActivationTanh
	case "sigmoid":
		return ActivationSigmoid
	default:
		// Documented default, not an accidental zero value.
		return ActivationReLU
	}
}

// String returns the configuration tag for the activation.
func (a Activation) String() string {
	switch a {
	case ActivationTanh:
		return "tanh"
	case ActivationSigmoid:
		return "sigmoid"
	default:
		return "relu"
	}
}

// apply computes the activation for a single pre-activation value.
func (a Activation) apply(z float64) float64 {
	switch a {
	case ActivationTanh:
		return math.Tanh(z)
	case ActivationSigmoid:
		return sigmoid(z)
	default:
		if z > 0 {
			return z
		}
		return 0
	}
}

// deriv computes the activation derivative given the pre-activation z
// and the already-computed output value.
func (a Activation) deriv(z, out float64) float64 {
	switch a {
	case ActivationTanh:
		return 1 - out*out
	case ActivationSigmoid:
		return out * (1 - out)
	default:
		if z > 0 {
			return 1
		}
		return 0
	}
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
