package automl

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
	mllog "github.com/ranilmukesh/mlstudio/pkg/log"
)

// Metrics is one trial's metric record. Accuracy and Loss come from
// cross-validation; ValAccuracy and ValLoss come from the final
// full-data fit's last epoch.
type Metrics struct {
	Accuracy    float64 `json:"accuracy"`
	Loss        float64 `json:"loss"`
	ValAccuracy float64 `json:"val_accuracy"`
	ValLoss     float64 `json:"val_loss"`
}

// ModelResult is one completed trial's outcome. The trained model is
// owned by the result; the caller decides its disposal. Results are
// never mutated after creation.
type ModelResult struct {
	Model     *network.Model `json:"-"`
	Config    ModelConfig    `json:"config"`
	Metrics   Metrics        `json:"metrics"`
	ModelType string         `json:"model_type"`

	// TrainingTime is wall-clock milliseconds for the whole trial,
	// cross-validation included.
	TrainingTime int64 `json:"training_time_ms"`
}

// ProgressFunc receives progress after each attempted trial: percent in
// [0, 100], the 1-based trial index, and the best result so far (nil
// until a trial succeeds). It runs on the search goroutine and must
// return promptly; a slow sink delays the next trial.
type ProgressFunc func(percent float64, trial int, best *ModelResult)

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateCompleted
)

// Orchestrator drives the AutoML trial loop. A run executes trials
// strictly sequentially and always runs to completion; there is no
// cancellation. Construct a fresh Orchestrator per run.
type Orchestrator struct {
	logger  *slog.Logger
	state   runState
	skipped int
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		logger: slog.Default().With(mllog.ComponentKey, "automl"),
		state:  stateIdle,
	}
}

// Skipped returns how many trials were skipped due to errors during the
// last run.
func (o *Orchestrator) Skipped() int { return o.skipped }

// Run executes the search and returns the leaderboard: all completed
// trials sorted descending by cross-validated accuracy. Per-trial
// failures are logged and skipped; a single bad configuration never
// aborts the run, and a run where every trial fails returns an empty
// leaderboard with a nil error. Only invalid inputs fail the run itself.
func (o *Orchestrator) Run(X *mat.Dense, y *mat.VecDense, base ModelConfig, cfg AutoMLConfig, onProgress ProgressFunc) ([]ModelResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	if n == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("Orchestrator.Run", n, y.Len(), 0)
	}

	o.state = stateRunning
	o.skipped = 0

	configs := GenerateConfigurations(base)
	trialsToRun := len(configs)
	if cfg.MaxTrials < trialsToRun {
		trialsToRun = cfg.MaxTrials
	}

	o.logger.Info("automl run started",
		mllog.OperationKey, "automl_run",
		mllog.TrialsTotalKey, trialsToRun,
		mllog.SamplesKey, n,
	)

	results := make([]ModelResult, 0, trialsToRun)
	var best *ModelResult

	for i := 0; i < trialsToRun; i++ {
		trialCfg := configs[i]
		started := time.Now()

		result, err := o.runTrial(X, y, trialCfg, cfg)
		if err != nil {
			o.skipped++
			o.logger.Error("trial failed, skipping",
				mllog.ErrAttr(errors.NewTrialError(i+1, trialCfg.ModelType, err)),
				mllog.TrialKey, i+1,
				mllog.ModelNameKey, trialCfg.ModelType,
			)
		} else {
			result.TrainingTime = time.Since(started).Milliseconds()
			results = append(results, *result)
			if best == nil || result.Metrics.Accuracy > best.Metrics.Accuracy {
				best = result
			}
			o.logger.Info("trial completed",
				mllog.TrialKey, i+1,
				mllog.ModelNameKey, trialCfg.ModelType,
				mllog.AccuracyKey, result.Metrics.Accuracy,
				mllog.LossKey, result.Metrics.Loss,
				mllog.DurationMsKey, result.TrainingTime,
			)
		}

		// The denominator stays fixed at trialsToRun, so percent reaches
		// 100 even when trials were skipped.
		if onProgress != nil {
			percent := float64(i+1) / float64(trialsToRun) * 100
			onProgress(percent, i+1, best)
		}
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].Metrics.Accuracy > results[b].Metrics.Accuracy
	})

	o.state = stateCompleted
	o.logger.Info("automl run completed",
		mllog.TrialsTotalKey, trialsToRun,
		mllog.SkippedKey, o.skipped,
	)
	return results, nil
}

// runTrial evaluates one configuration: cross-validation for the robust
// metrics, then one more fit on the full dataset to produce the model
// artifact attached to the result.
func (o *Orchestrator) runTrial(X *mat.Dense, y *mat.VecDense, trialCfg ModelConfig, cfg AutoMLConfig) (result *ModelResult, err error) {
	defer errors.Recover(&err, "automl.runTrial")

	cv, err := CrossValidate(X, y, trialCfg, cfg.CrossValidationFolds)
	if err != nil {
		return nil, err
	}

	model, err := trialCfg.buildModel(colCount(X))
	if err != nil {
		return nil, err
	}

	trainer := network.NewTrainer(trialCfg.trainConfig(cfg.EarlyStoppingPatience))
	history, err := trainer.Fit(model, X, y, nil)
	if err != nil {
		return nil, err
	}

	metrics := Metrics{
		Accuracy: cv.Accuracy,
		Loss:     cv.Loss,
		// Fall back to the cross-validated values when the full fit had
		// no validation slice.
		ValAccuracy: cv.Accuracy,
		ValLoss:     cv.Loss,
	}
	if last, ok := history.Last(); ok && last.HasValidation {
		metrics.ValAccuracy = last.ValAccuracy
		metrics.ValLoss = last.ValLoss
	}

	return &ModelResult{
		Model:     model,
		Config:    trialCfg,
		Metrics:   metrics,
		ModelType: network.ModelTypeFromTag(trialCfg.ModelType).String(),
	}, nil
}

func colCount(X *mat.Dense) int {
	_, cols := X.Dims()
	return cols
}
