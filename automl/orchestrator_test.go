package automl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func orchestratorRunConfig(maxTrials int) AutoMLConfig {
	return AutoMLConfig{
		MaxTrials:            maxTrials,
		ValidationSplit:      0.2,
		CrossValidationFolds: 2,
	}
}

func TestOrchestratorRun(t *testing.T) {
	X, y := cvTestData(40)
	base := ModelConfig{Epochs: 3, TargetVariable: "outcome"}

	o := NewOrchestrator()
	results, err := o.Run(X, y, base, orchestratorRunConfig(3), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Zero(t, o.Skipped())

	// リーダーボードは交差検証精度の降順
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Metrics.Accuracy, results[i].Metrics.Accuracy)
	}

	for _, r := range results {
		require.NotNil(t, r.Model)
		assert.True(t, r.Model.IsFitted())
		assert.Equal(t, "simple", r.ModelType)
		assert.Equal(t, "outcome", r.Config.TargetVariable)
		assert.GreaterOrEqual(t, r.TrainingTime, int64(0))
		assert.GreaterOrEqual(t, r.Metrics.Accuracy, 0.0)
		assert.LessOrEqual(t, r.Metrics.Accuracy, 1.0)
	}
}

func TestOrchestratorProgress(t *testing.T) {
	X, y := cvTestData(40)
	base := ModelConfig{Epochs: 2}

	type call struct {
		percent float64
		trial   int
		hasBest bool
	}
	var calls []call

	o := NewOrchestrator()
	_, err := o.Run(X, y, base, orchestratorRunConfig(4), func(percent float64, trial int, best *ModelResult) {
		calls = append(calls, call{percent, trial, best != nil})
	})
	require.NoError(t, err)

	// 試行ごとに一度、単調増加で 100 に到達する
	require.Len(t, calls, 4)
	for i, c := range calls {
		assert.Equal(t, i+1, c.trial)
		if i > 0 {
			assert.Greater(t, c.percent, calls[i-1].percent)
		}
	}
	assert.InDelta(t, 100.0, calls[len(calls)-1].percent, 1e-9)
	assert.True(t, calls[0].hasBest)
}

func TestOrchestratorCapsTrialsAtGeneratedCount(t *testing.T) {
	X, y := cvTestData(20)
	base := ModelConfig{Epochs: 1}

	count := 0
	o := NewOrchestrator()
	results, err := o.Run(X, y, base, orchestratorRunConfig(100), func(float64, int, *ModelResult) {
		count++
	})
	require.NoError(t, err)

	// 生成器は 50 件で打ち切るため MaxTrials=100 でも 50 試行まで
	assert.Equal(t, 50, count)
	assert.Len(t, results, 50)
}

func TestOrchestratorSkipsFailedTrials(t *testing.T) {
	// fold 数が標本数を超えると全試行の交差検証が失敗する
	X, y := cvTestData(4)
	base := ModelConfig{Epochs: 2}
	cfg := AutoMLConfig{
		MaxTrials:            3,
		ValidationSplit:      0.2,
		CrossValidationFolds: 5,
	}

	bestAlwaysNil := true
	var percents []float64

	o := NewOrchestrator()
	results, err := o.Run(X, y, base, cfg, func(percent float64, trial int, best *ModelResult) {
		percents = append(percents, percent)
		if best != nil {
			bestAlwaysNil = false
		}
	})

	// 全滅してもランは成功扱いで、空のリーダーボードが返る
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 3, o.Skipped())
	assert.True(t, bestAlwaysNil)

	// スキップされた試行でも進捗は前進し 100 に届く
	require.Len(t, percents, 3)
	assert.InDelta(t, 100.0, percents[2], 1e-9)
}

func TestOrchestratorValidatesRun(t *testing.T) {
	X, y := cvTestData(20)

	t.Run("invalid policy", func(t *testing.T) {
		o := NewOrchestrator()
		_, err := o.Run(X, y, ModelConfig{Epochs: 2}, AutoMLConfig{}, nil)
		assert.Error(t, err)
	})

	t.Run("label length mismatch", func(t *testing.T) {
		o := NewOrchestrator()
		short := mat.NewVecDense(10, nil)
		_, err := o.Run(X, short, ModelConfig{Epochs: 2}, orchestratorRunConfig(2), nil)
		assert.Error(t, err)
	})
}

func TestDefaultAutoMLConfig(t *testing.T) {
	cfg := DefaultAutoMLConfig()
	assert.Equal(t, 10, cfg.MaxTrials)
	assert.Equal(t, 0.2, cfg.ValidationSplit)
	assert.Equal(t, 5, cfg.EarlyStoppingPatience)
	assert.Equal(t, 3, cfg.CrossValidationFolds)
	assert.NoError(t, cfg.Validate())
}

func TestAutoMLConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AutoMLConfig)
		wantErr bool
	}{
		{"defaults pass", func(*AutoMLConfig) {}, false},
		{"zero trials", func(c *AutoMLConfig) { c.MaxTrials = 0 }, true},
		{"single fold", func(c *AutoMLConfig) { c.CrossValidationFolds = 1 }, true},
		{"split at 1", func(c *AutoMLConfig) { c.ValidationSplit = 1 }, true},
		{"split at 0", func(c *AutoMLConfig) { c.ValidationSplit = 0 }, true},
		{"negative patience", func(c *AutoMLConfig) { c.EarlyStoppingPatience = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAutoMLConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
