package network

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	coremodel "github.com/ranilmukesh/mlstudio/core/model"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// LayerSnapshot is the serializable form of one layer.
type LayerSnapshot struct {
	Kind       string    `json:"kind"` // "dense" or "dropout"
	In         int       `json:"in,omitempty"`
	Out        int       `json:"out,omitempty"`
	Activation string    `json:"activation,omitempty"`
	Rate       float64   `json:"rate,omitempty"`
	Weights    []float64 `json:"weights,omitempty"`
	Bias       []float64 `json:"bias,omitempty"`
}

// Snapshot is the serializable form of a trained model: topology plus
// weights, enough to rebuild a usable classifier.
type Snapshot struct {
	ModelType string          `json:"model_type"`
	InputDim  int             `json:"input_dim"`
	Layers    []LayerSnapshot `json:"layers"`
}

// Snapshot captures the model's topology and weights. The model must be
// fitted; exporting an untrained model is a caller error.
func (m *Model) Snapshot() (*Snapshot, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("network.Model", "Snapshot")
	}

	snap := &Snapshot{
		ModelType: m.kind.String(),
		InputDim:  m.inDim,
	}
	for _, l := range m.layers {
		switch v := l.(type) {
		case *Dense:
			w := make([]float64, len(v.W.RawMatrix().Data))
			copy(w, v.W.RawMatrix().Data)
			b := make([]float64, len(v.B))
			copy(b, v.B)
			snap.Layers = append(snap.Layers, LayerSnapshot{
				Kind:       "dense",
				In:         v.InDim,
				Out:        v.OutDim,
				Activation: v.Act.String(),
				Weights:    w,
				Bias:       b,
			})
		case *Dropout:
			snap.Layers = append(snap.Layers, LayerSnapshot{
				Kind: "dropout",
				Rate: v.Rate,
			})
		}
	}
	return snap, nil
}

// FromSnapshot rebuilds a fitted model from a snapshot.
func FromSnapshot(snap *Snapshot) (*Model, error) {
	if snap.InputDim <= 0 {
		return nil, errors.NewValueError("network.FromSnapshot", "snapshot has non-positive input dimension")
	}
	if len(snap.Layers) == 0 {
		return nil, errors.NewValueError("network.FromSnapshot", "snapshot has no layers")
	}

	rng := rand.New(rand.NewPCG(defaultSeed, defaultSeed))
	m := &Model{
		state: coremodel.NewStateManager(),
		inDim: snap.InputDim,
		rng:   rng,
		kind:  ModelTypeFromTag(snap.ModelType),
	}

	denseIdx := 0
	for _, ls := range snap.Layers {
		switch ls.Kind {
		case "dense":
			if ls.In <= 0 || ls.Out <= 0 {
				return nil, errors.NewValueError("network.FromSnapshot", "dense layer has non-positive dimensions")
			}
			if len(ls.Weights) != ls.In*ls.Out || len(ls.Bias) != ls.Out {
				return nil, errors.NewValueError("network.FromSnapshot", "dense layer weight shape mismatch")
			}
			name := "head"
			if denseIdx < denseCount(snap)-1 {
				name = denseName(denseIdx)
			}
			d := newDense(name, ls.In, ls.Out, ActivationFromTag(ls.Activation), rng)
			d.W = mat.NewDense(ls.In, ls.Out, append([]float64(nil), ls.Weights...))
			copy(d.B, ls.Bias)
			m.layers = append(m.layers, d)
			denseIdx++
		case "dropout":
			m.layers = append(m.layers, newDropout(ls.Rate, rng))
		default:
			return nil, errors.NewValueError("network.FromSnapshot", "unknown layer kind: "+ls.Kind)
		}
	}

	m.state.SetDimensions(snap.InputDim, 0)
	m.state.SetFitted()
	return m, nil
}

func denseCount(snap *Snapshot) int {
	n := 0
	for _, ls := range snap.Layers {
		if ls.Kind == "dense" {
			n++
		}
	}
	return n
}

func denseName(i int) string {
	return fmt.Sprintf("dense%d", i)
}
