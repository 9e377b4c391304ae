package network

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Param is one optimizer-visible parameter group: a flat value slice and
// its gradient of the same length. Name is unique within a model and keys
// the optimizer's per-parameter state.
type Param struct {
	Name string
	W    []float64
	Grad []float64
}

// Layer is one stage of a sequential model.
type Layer interface {
	// Forward computes the layer output for a batch (rows = samples).
	// training toggles train-only behavior such as dropout masking.
	Forward(x *mat.Dense, training bool) *mat.Dense

	// Backward consumes the gradient with respect to the layer output
	// and returns the gradient with respect to the layer input,
	// accumulating parameter gradients as a side effect.
	Backward(grad *mat.Dense) *mat.Dense

	// Params returns the layer's trainable parameter groups, if any.
	Params() []Param
}

// Dense is a fully connected layer with an elementwise activation.
type Dense struct {
	InDim  int
	OutDim int
	Act    Activation

	W *mat.Dense // InDim x OutDim
	B []float64

	name string

	// forward caches for backprop
	input *mat.Dense
	z     *mat.Dense
	out   *mat.Dense

	dW *mat.Dense
	dB []float64
}

// newDense creates a dense layer with Glorot-uniform initialized weights.
func newDense(name string, in, out int, act Activation, rng *rand.Rand) *Dense {
	w := mat.NewDense(in, out, nil)
	limit := math.Sqrt(6.0 / float64(in+out))
	for i := 0; i < in; i++ {
		for j := 0; j < out; j++ {
			w.Set(i, j, rng.Float64()*2*limit-limit)
		}
	}
	return &Dense{
		InDim:  in,
		OutDim: out,
		Act:    act,
		W:      w,
		B:      make([]float64, out),
		name:   name,
		dW:     mat.NewDense(in, out, nil),
		dB:     make([]float64, out),
	}
}

// Forward implements Layer.
func (d *Dense) Forward(x *mat.Dense, training bool) *mat.Dense {
	rows, _ := x.Dims()

	z := mat.NewDense(rows, d.OutDim, nil)
	z.Mul(x, d.W)
	for i := 0; i < rows; i++ {
		for j := 0; j < d.OutDim; j++ {
			z.Set(i, j, z.At(i, j)+d.B[j])
		}
	}

	out := mat.NewDense(rows, d.OutDim, nil)
	out.Apply(func(_, _ int, v float64) float64 { return d.Act.apply(v) }, z)

	if training {
		d.input = x
		d.z = z
		d.out = out
	}
	return out
}

// Backward implements Layer. grad is dL/d(out).
func (d *Dense) Backward(grad *mat.Dense) *mat.Dense {
	rows, _ := grad.Dims()

	dz := mat.NewDense(rows, d.OutDim, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < d.OutDim; j++ {
			dz.Set(i, j, grad.At(i, j)*d.Act.deriv(d.z.At(i, j), d.out.At(i, j)))
		}
	}
	return d.backwardPre(dz)
}

// backwardPre runs the backward pass from dL/dz directly, skipping the
// activation derivative. The trainer uses this for the sigmoid head,
// where the cross-entropy gradient collapses to (out - y)/n.
func (d *Dense) backwardPre(dz *mat.Dense) *mat.Dense {
	rows, _ := dz.Dims()

	d.dW.Mul(d.input.T(), dz)
	for j := 0; j < d.OutDim; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += dz.At(i, j)
		}
		d.dB[j] = sum
	}

	dx := mat.NewDense(rows, d.InDim, nil)
	dx.Mul(dz, d.W.T())
	return dx
}

// Params implements Layer.
func (d *Dense) Params() []Param {
	return []Param{
		{Name: d.name + ".w", W: d.W.RawMatrix().Data, Grad: d.dW.RawMatrix().Data},
		{Name: d.name + ".b", W: d.B, Grad: d.dB},
	}
}

// Dropout zeroes a fraction of activations during training using inverted
// scaling, so evaluation-time forward passes are an identity.
type Dropout struct {
	Rate float64

	rng  *rand.Rand
	mask *mat.Dense
}

// newDropout creates a dropout layer. Rate must be in [0, 1).
func newDropout(rate float64, rng *rand.Rand) *Dropout {
	return &Dropout{Rate: rate, rng: rng}
}

// Forward implements Layer.
func (dr *Dropout) Forward(x *mat.Dense, training bool) *mat.Dense {
	if !training || dr.Rate <= 0 {
		return x
	}

	rows, cols := x.Dims()
	keep := 1 - dr.Rate
	dr.mask = mat.NewDense(rows, cols, nil)
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if dr.rng.Float64() < keep {
				scale := 1 / keep
				dr.mask.Set(i, j, scale)
				out.Set(i, j, x.At(i, j)*scale)
			}
		}
	}
	return out
}

// Backward implements Layer.
func (dr *Dropout) Backward(grad *mat.Dense) *mat.Dense {
	if dr.mask == nil {
		return grad
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, grad.At(i, j)*dr.mask.At(i, j))
		}
	}
	return out
}

// Params implements Layer. Dropout has no trainable parameters.
func (dr *Dropout) Params() []Param { return nil }

// describe returns a short human-readable layer summary for Summary output.
func describe(l Layer) string {
	switch v := l.(type) {
	case *Dense:
		return fmt.Sprintf("Dense(%d -> %d, %s)", v.InDim, v.OutDim, v.Act)
	case *Dropout:
		return fmt.Sprintf("Dropout(%.2f)", v.Rate)
	default:
		return "Unknown"
	}
}
