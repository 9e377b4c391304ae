package network

import "math"

// Optimizer applies parameter updates from accumulated gradients.
// Implementations keep per-parameter state keyed by Param.Name, so one
// optimizer instance must not be shared between models.
type Optimizer interface {
	// Step applies one update to every parameter group.
	Step(params []Param)

	// Name returns the configuration tag of the optimizer.
	Name() string

	// LearningRate returns the configured learning rate.
	LearningRate() float64
}

// Resolve maps an optimizer tag and learning rate to an optimizer
// instance. Unknown tags resolve to Adam through an explicit default
// branch, matching the documented catalog behavior.
func Resolve(tag string, learningRate float64) Optimizer {
	switch tag {
	case "sgd":
		return NewSGD(learningRate)
	case "rmsprop":
		return NewRMSProp(learningRate)
	case "adagrad":
		return NewAdaGrad(learningRate)
	case "adam":
		return NewAdam(learningRate)
	default:
		// Documented default.
		return NewAdam(learningRate)
	}
}

// SGD is plain stochastic gradient descent.
type SGD struct {
	lr float64
}

// NewSGD creates an SGD optimizer.
func NewSGD(lr float64) *SGD { return &SGD{lr: lr} }

// Step implements Optimizer.
func (o *SGD) Step(params []Param) {
	for _, p := range params {
		for i := range p.W {
			p.W[i] -= o.lr * p.Grad[i]
		}
	}
}

// Name implements Optimizer.
func (o *SGD) Name() string { return "sgd" }

// LearningRate implements Optimizer.
func (o *SGD) LearningRate() float64 { return o.lr }

// Adam implements the Adam optimizer with bias correction.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t int
	m map[string][]float64
	v map[string][]float64
}

// NewAdam creates an Adam optimizer with the standard defaults
// (beta1=0.9, beta2=0.999, eps=1e-8).
func NewAdam(lr float64) *Adam {
	return &Adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     make(map[string][]float64),
		v:     make(map[string][]float64),
	}
}

// Step implements Optimizer.
func (o *Adam) Step(params []Param) {
	o.t++
	bc1 := 1 - math.Pow(o.beta1, float64(o.t))
	bc2 := 1 - math.Pow(o.beta2, float64(o.t))

	for _, p := range params {
		m, ok := o.m[p.Name]
		if !ok {
			m = make([]float64, len(p.W))
			o.m[p.Name] = m
		}
		v, ok := o.v[p.Name]
		if !ok {
			v = make([]float64, len(p.W))
			o.v[p.Name] = v
		}

		for i := range p.W {
			g := p.Grad[i]
			m[i] = o.beta1*m[i] + (1-o.beta1)*g
			v[i] = o.beta2*v[i] + (1-o.beta2)*g*g
			mHat := m[i] / bc1
			vHat := v[i] / bc2
			p.W[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
		}
	}
}

// Name implements Optimizer.
func (o *Adam) Name() string { return "adam" }

// LearningRate implements Optimizer.
func (o *Adam) LearningRate() float64 { return o.lr }

// RMSProp implements the RMSProp optimizer.
type RMSProp struct {
	lr    float64
	rho   float64
	eps   float64
	cache map[string][]float64
}

// NewRMSProp creates an RMSProp optimizer (rho=0.9, eps=1e-8).
func NewRMSProp(lr float64) *RMSProp {
	return &RMSProp{
		lr:    lr,
		rho:   0.9,
		eps:   1e-8,
		cache: make(map[string][]float64),
	}
}

// Step implements Optimizer.
func (o *RMSProp) Step(params []Param) {
	for _, p := range params {
		c, ok := o.cache[p.Name]
		if !ok {
			c = make([]float64, len(p.W))
			o.cache[p.Name] = c
		}
		for i := range p.W {
			g := p.Grad[i]
			c[i] = o.rho*c[i] + (1-o.rho)*g*g
			p.W[i] -= o.lr * g / (math.Sqrt(c[i]) + o.eps)
		}
	}
}

// Name implements Optimizer.
func (o *RMSProp) Name() string { return "rmsprop" }

// LearningRate implements Optimizer.
func (o *RMSProp) LearningRate() float64 { return o.lr }

// AdaGrad implements the AdaGrad optimizer.
type AdaGrad struct {
	lr    float64
	eps   float64
	accum map[string][]float64
}

// NewAdaGrad creates an AdaGrad optimizer (eps=1e-8).
func NewAdaGrad(lr float64) *AdaGrad {
	return &AdaGrad{
		lr:    lr,
		eps:   1e-8,
		accum: make(map[string][]float64),
	}
}

// Step implements Optimizer.
func (o *AdaGrad) Step(params []Param) {
	for _, p := range params {
		a, ok := o.accum[p.Name]
		if !ok {
			a = make([]float64, len(p.W))
			o.accum[p.Name] = a
		}
		for i := range p.W {
			g := p.Grad[i]
			a[i] += g * g
			p.W[i] -= o.lr * g / (math.Sqrt(a[i]) + o.eps)
		}
	}
}

// Name implements Optimizer.
func (o *AdaGrad) Name() string { return "adagrad" }

// LearningRate implements Optimizer.
func (o *AdaGrad) LearningRate() float64 { return o.lr }
