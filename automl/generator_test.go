package automl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigurations(t *testing.T) {
	base := ModelConfig{
		Epochs:         10,
		TargetVariable: "outcome",
	}

	t.Run("truncates at 50", func(t *testing.T) {
		configs := GenerateConfigurations(base)
		assert.Len(t, configs, 50)
	})

	t.Run("deterministic", func(t *testing.T) {
		a := GenerateConfigurations(base)
		b := GenerateConfigurations(base)
		assert.Equal(t, a, b)
	})

	t.Run("carries target variable and caps epochs", func(t *testing.T) {
		long := base
		long.Epochs = 100
		configs := GenerateConfigurations(long)
		for _, cfg := range configs {
			assert.Equal(t, "outcome", cfg.TargetVariable)
			assert.Equal(t, 20, cfg.Epochs)
		}

		short := base
		short.Epochs = 5
		configs = GenerateConfigurations(short)
		assert.Equal(t, 5, configs[0].Epochs)
	})

	t.Run("fixed nesting order", func(t *testing.T) {
		configs := GenerateConfigurations(base)
		require.Len(t, configs, 50)

		// 外側のループは 50 件では一度も進まない
		for _, cfg := range configs {
			assert.Equal(t, "simple", cfg.ModelType)
			assert.Equal(t, 0.001, cfg.LearningRate)
			assert.Equal(t, 16, cfg.BatchSize)
		}

		first := configs[0]
		assert.Equal(t, 0.0, first.DropoutRate)
		assert.Equal(t, "adam", first.Optimizer)
		assert.Equal(t, "relu", first.Activation)
		assert.Equal(t, []int{32}, first.HiddenLayers)

		// dropout=0 のブロックは 3*3*4 = 36 件
		assert.Equal(t, 0.0, configs[35].DropoutRate)
		assert.Equal(t, 0.1, configs[36].DropoutRate)

		last := configs[49]
		assert.Equal(t, 0.1, last.DropoutRate)
		assert.Equal(t, "sgd", last.Optimizer)
		assert.Equal(t, "relu", last.Activation)
		assert.Equal(t, []int{64, 32}, last.HiddenLayers)
	})

	t.Run("hidden layer slices are independent copies", func(t *testing.T) {
		a := GenerateConfigurations(base)
		a[0].HiddenLayers[0] = 9999

		b := GenerateConfigurations(base)
		assert.Equal(t, []int{32}, b[0].HiddenLayers)
	})
}
