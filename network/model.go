// Package network implements the feed-forward binary classifiers behind
// the model catalog: dense/dropout layers, the optimizers they train
// with, and the minibatch trainer that fits them.
package network

import (
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"

	coremodel "github.com/ranilmukesh/mlstudio/core/model"
	"github.com/ranilmukesh/mlstudio/metrics"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// Model is a sequential binary classifier ending in a single sigmoid unit.
// Build it through the catalog (Build); the zero value is not usable.
type Model struct {
	state  *coremodel.StateManager
	layers []Layer
	inDim  int
	rng    *rand.Rand
	kind   ModelType
}

// Kind returns the catalog model type this model was built as.
func (m *Model) Kind() ModelType { return m.kind }

// InputDim returns the expected feature count.
func (m *Model) InputDim() int { return m.inDim }

// IsFitted reports whether the model has been trained.
func (m *Model) IsFitted() bool { return m.state.IsFitted() }

// Forward runs a full forward pass. training enables dropout masking and
// backprop caching.
func (m *Model) Forward(x *mat.Dense, training bool) *mat.Dense {
	out := x
	for _, l := range m.layers {
		out = l.Forward(out, training)
	}
	return out
}

// backwardFromLogits runs the backward pass starting from dL/dz of the
// sigmoid head. The catalog guarantees the final layer is a Dense sigmoid
// unit, so the head's activation derivative is already folded into dz.
func (m *Model) backwardFromLogits(dz *mat.Dense) {
	head := m.layers[len(m.layers)-1].(*Dense)
	grad := head.backwardPre(dz)
	for i := len(m.layers) - 2; i >= 0; i-- {
		grad = m.layers[i].Backward(grad)
	}
}

// params collects every trainable parameter group, in layer order.
func (m *Model) params() []Param {
	var ps []Param
	for _, l := range m.layers {
		ps = append(ps, l.Params()...)
	}
	return ps
}

// checkInput validates a prediction input against the model shape.
func (m *Model) checkInput(X mat.Matrix, method string) (*mat.Dense, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("network.Model", method)
	}
	rows, cols := X.Dims()
	if cols != m.inDim {
		return nil, errors.NewDimensionError("Model."+method, m.inDim, cols, 1)
	}
	if rows == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	dense, ok := X.(*mat.Dense)
	if !ok {
		dense = mat.DenseCopyOf(X)
	}
	return dense, nil
}

// PredictProba returns the positive-class probability for each row of X.
func (m *Model) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	dense, err := m.checkInput(X, "PredictProba")
	if err != nil {
		return nil, err
	}
	return m.proba(dense), nil
}

// proba runs an evaluation-mode forward pass and flattens the sigmoid
// head output to a vector. No fitted-state gate; the trainer uses it for
// mid-training validation metrics.
func (m *Model) proba(x *mat.Dense) *mat.VecDense {
	out := m.Forward(x, false)
	rows, _ := out.Dims()
	probs := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		probs.SetVec(i, out.At(i, 0))
	}
	return probs
}

// Predict returns hard 0/1 labels using a 0.5 threshold.
func (m *Model) Predict(X mat.Matrix) (*mat.VecDense, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i := 0; i < probs.Len(); i++ {
		if probs.AtVec(i) > 0.5 {
			probs.SetVec(i, 1)
		} else {
			probs.SetVec(i, 0)
		}
	}
	return probs, nil
}

// Score returns the mean accuracy of predictions on X against y.
func (m *Model) Score(X mat.Matrix, y *mat.VecDense) (float64, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, probs)
}

// Evaluate computes binary cross-entropy loss and accuracy on X, y.
func (m *Model) Evaluate(X mat.Matrix, y *mat.VecDense) (loss, accuracy float64, err error) {
	dense, err := m.checkInput(X, "Evaluate")
	if err != nil {
		return 0, 0, err
	}
	rows, _ := dense.Dims()
	if y.Len() != rows {
		return 0, 0, errors.NewDimensionError("Model.Evaluate", rows, y.Len(), 0)
	}
	probs := m.proba(dense)
	loss, err = metrics.LogLoss(y, probs)
	if err != nil {
		return 0, 0, err
	}
	accuracy, err = metrics.Accuracy(y, probs)
	if err != nil {
		return 0, 0, err
	}
	return loss, accuracy, nil
}

// NumParams returns the total trainable parameter count.
func (m *Model) NumParams() int {
	n := 0
	for _, p := range m.params() {
		n += len(p.W)
	}
	return n
}

// Summary returns a one-line-per-layer architecture description.
func (m *Model) Summary() string {
	var b strings.Builder
	for i, l := range m.layers {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(describe(l))
	}
	return b.String()
}
