package network

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/metrics"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
	mllog "github.com/ranilmukesh/mlstudio/pkg/log"
)

// validationFraction is the fixed fraction of samples held out from the
// tail of the passed-in data for per-epoch validation metrics. The split
// is positional; the trainer never re-shuffles.
const validationFraction = 0.2

// TrainConfig contains the fitting hyperparameters.
type TrainConfig struct {
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batch_size"`
	LearningRate float64 `json:"learning_rate"`

	// Optimizer is the optimizer tag; unknown tags resolve to adam.
	Optimizer string `json:"optimizer"`

	// EarlyStoppingPatience stops training after this many epochs without
	// validation-loss improvement. Zero disables early stopping.
	EarlyStoppingPatience int `json:"early_stopping_patience"`
}

// EpochLogs holds the metrics reported at the end of one epoch.
type EpochLogs struct {
	Loss        float64 `json:"loss"`
	Accuracy    float64 `json:"accuracy"`
	ValLoss     float64 `json:"val_loss"`
	ValAccuracy float64 `json:"val_accuracy"`

	// HasValidation is false when the dataset was too small to hold out
	// a validation slice; ValLoss and ValAccuracy are then meaningless.
	HasValidation bool `json:"has_validation"`
}

// History is the full per-epoch fit record. Callers read the last entry
// as the final metrics.
type History struct {
	Epochs []EpochLogs `json:"epochs"`
}

// Last returns the final epoch's logs, if any epoch completed.
func (h *History) Last() (EpochLogs, bool) {
	if len(h.Epochs) == 0 {
		return EpochLogs{}, false
	}
	return h.Epochs[len(h.Epochs)-1], true
}

// EpochCallback is invoked synchronously after each epoch with the
// 0-based epoch index. The callback for epoch i strictly precedes the
// one for epoch i+1, and a slow callback delays the next epoch.
type EpochCallback func(epoch int, logs EpochLogs)

// Trainer fits a catalog model with minibatch gradient descent against
// binary cross-entropy loss. A Trainer is reusable across models; the
// optimizer is resolved fresh per Fit call so no state leaks between fits.
type Trainer struct {
	cfg    TrainConfig
	logger *slog.Logger
}

// NewTrainer creates a trainer, applying defaults for unset knobs
// (10 epochs, batch size 32, learning rate 0.001).
func NewTrainer(cfg TrainConfig) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 10
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.001
	}
	return &Trainer{
		cfg:    cfg,
		logger: slog.Default().With(mllog.ComponentKey, "network"),
	}
}

// Fit trains the model in place and returns the per-epoch history.
// A fixed 20% validation slice is taken from the tail of X, y. When an
// epoch callback is supplied it runs synchronously between epochs.
func (t *Trainer) Fit(m *Model, X *mat.Dense, y *mat.VecDense, onEpochEnd EpochCallback) (*History, error) {
	n, cols := X.Dims()
	if n == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("Trainer.Fit", n, y.Len(), 0)
	}
	if cols != m.inDim {
		return nil, errors.NewDimensionError("Trainer.Fit", m.inDim, cols, 1)
	}

	opt := Resolve(t.cfg.Optimizer, t.cfg.LearningRate)
	stopper := NewEarlyStopping(t.cfg.EarlyStoppingPatience)

	nVal := int(float64(n) * validationFraction)
	nTrain := n - nVal
	if nTrain == 0 {
		nTrain = n
		nVal = 0
	}

	trainX := X.Slice(0, nTrain, 0, cols).(*mat.Dense)
	var valX *mat.Dense
	var valY *mat.VecDense
	if nVal > 0 {
		valX = X.Slice(nTrain, n, 0, cols).(*mat.Dense)
		valY = mat.NewVecDense(nVal, nil)
		for i := 0; i < nVal; i++ {
			valY.SetVec(i, y.AtVec(nTrain+i))
		}
	}

	t.logger.Debug("fit started",
		mllog.OperationKey, "fit",
		mllog.ModelNameKey, m.kind.String(),
		mllog.SamplesKey, n,
		mllog.FeaturesKey, cols,
		mllog.BatchSizeKey, t.cfg.BatchSize,
	)

	history := &History{}
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		var lossSum float64
		correct := 0

		for start := 0; start < nTrain; start += t.cfg.BatchSize {
			end := start + t.cfg.BatchSize
			if end > nTrain {
				end = nTrain
			}
			batchRows := end - start
			batchX := trainX.Slice(start, end, 0, cols).(*mat.Dense)

			out := m.Forward(batchX, true)

			// Batch loss/accuracy from the same forward pass.
			dz := mat.NewDense(batchRows, 1, nil)
			for i := 0; i < batchRows; i++ {
				p := out.At(i, 0)
				target := y.AtVec(start + i)

				pc := p
				if pc < 1e-15 {
					pc = 1e-15
				} else if pc > 1-1e-15 {
					pc = 1 - 1e-15
				}
				if target == 1 {
					lossSum -= math.Log(pc)
				} else {
					lossSum -= math.Log(1 - pc)
				}

				pred := 0.0
				if p > 0.5 {
					pred = 1.0
				}
				if pred == target {
					correct++
				}

				// Cross-entropy through the sigmoid head collapses to
				// (p - y), averaged over the batch.
				dz.Set(i, 0, (p-target)/float64(batchRows))
			}

			m.backwardFromLogits(dz)
			opt.Step(m.params())
		}

		logs := EpochLogs{
			Loss:     lossSum / float64(nTrain),
			Accuracy: float64(correct) / float64(nTrain),
		}
		if math.IsNaN(logs.Loss) || math.IsInf(logs.Loss, 0) {
			return nil, errors.NewNumericalInstabilityError("loss_calculation", []float64{logs.Loss}, epoch)
		}

		if nVal > 0 {
			valProbs := m.proba(valX)
			valLoss, err := metrics.LogLoss(valY, valProbs)
			if err != nil {
				return nil, err
			}
			valAcc, err := metrics.Accuracy(valY, valProbs)
			if err != nil {
				return nil, err
			}
			logs.ValLoss = valLoss
			logs.ValAccuracy = valAcc
			logs.HasValidation = true
		}

		history.Epochs = append(history.Epochs, logs)

		t.logger.Debug("epoch completed",
			mllog.EpochKey, epoch,
			mllog.LossKey, logs.Loss,
			mllog.AccuracyKey, logs.Accuracy,
			mllog.ValLossKey, logs.ValLoss,
			mllog.ValAccuracyKey, logs.ValAccuracy,
		)

		if onEpochEnd != nil {
			onEpochEnd(epoch, logs)
		}

		if logs.HasValidation && stopper.Update(epoch, logs.ValLoss) {
			t.logger.Debug("early stopping triggered",
				mllog.EpochKey, epoch,
				"best_epoch", stopper.BestEpoch,
			)
			break
		}
	}

	if first, last := history.Epochs[0], history.Epochs[len(history.Epochs)-1]; len(history.Epochs) > 1 && last.Loss > first.Loss {
		errors.Warn(errors.NewConvergenceWarning("network.Trainer", len(history.Epochs),
			"training loss did not improve"))
	}

	m.state.SetDimensions(cols, n)
	m.state.SetFitted()
	return history, nil
}
