package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

func TestSnapshotRequiresFitted(t *testing.T) {
	m, err := Build(ModelTypeSimple, 3, BuildSpec{})
	require.NoError(t, err)

	_, err = m.Snapshot()
	assert.Error(t, err)
}

func TestFromSnapshotValidation(t *testing.T) {
	t.Run("non-positive input dim", func(t *testing.T) {
		_, err := FromSnapshot(&Snapshot{InputDim: 0, Layers: []LayerSnapshot{{Kind: "dense"}}})
		assert.Error(t, err)
	})

	t.Run("no layers", func(t *testing.T) {
		_, err := FromSnapshot(&Snapshot{InputDim: 2})
		assert.Error(t, err)
	})

	t.Run("non-positive layer dimensions", func(t *testing.T) {
		// In*Out=0 では重み長の検査が空振りするため、次元そのものを弾く
		_, err := FromSnapshot(&Snapshot{
			InputDim: 2,
			Layers:   []LayerSnapshot{{Kind: "dense", In: 2, Out: 0, Activation: "sigmoid"}},
		})
		require.Error(t, err)

		var vErr *errors.ValueError
		assert.ErrorAs(t, err, &vErr)

		_, err = FromSnapshot(&Snapshot{
			InputDim: 2,
			Layers:   []LayerSnapshot{{Kind: "dense", In: -1, Out: 1, Activation: "sigmoid"}},
		})
		assert.Error(t, err)
	})

	t.Run("weight shape mismatch", func(t *testing.T) {
		_, err := FromSnapshot(&Snapshot{
			ModelType: "linear",
			InputDim:  2,
			Layers: []LayerSnapshot{{
				Kind: "dense", In: 2, Out: 1,
				Activation: "sigmoid",
				Weights:    []float64{0.1}, // In*Out=2 に満たない
				Bias:       []float64{0},
			}},
		})
		assert.Error(t, err)
	})

	t.Run("unknown layer kind", func(t *testing.T) {
		_, err := FromSnapshot(&Snapshot{
			InputDim: 2,
			Layers:   []LayerSnapshot{{Kind: "conv"}},
		})
		assert.Error(t, err)
	})

	t.Run("valid linear snapshot", func(t *testing.T) {
		m, err := FromSnapshot(&Snapshot{
			ModelType: "linear",
			InputDim:  2,
			Layers: []LayerSnapshot{{
				Kind: "dense", In: 2, Out: 1,
				Activation: "sigmoid",
				Weights:    []float64{0.5, -0.5},
				Bias:       []float64{0.1},
			}},
		})
		require.NoError(t, err)
		assert.True(t, m.IsFitted())
		assert.Equal(t, ModelTypeLinear, m.Kind())
		assert.Equal(t, 3, m.NumParams())
	})
}
