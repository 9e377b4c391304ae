package automl

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
	mllog "github.com/ranilmukesh/mlstudio/pkg/log"
)

// CVScore holds cross-validated metrics for one configuration.
type CVScore struct {
	// Accuracy and Loss are averaged over exactly `folds` evaluations.
	Accuracy float64 `json:"accuracy"`
	Loss     float64 `json:"loss"`

	// Per-fold scores, in fold order.
	FoldAccuracies []float64 `json:"fold_accuracies"`
	FoldLosses     []float64 `json:"fold_losses"`

	// AccuracyStd is the sample standard deviation of fold accuracies.
	AccuracyStd float64 `json:"accuracy_std"`
}

// CrossValidate evaluates a configuration with k-fold cross-validation.
// The sample range [0, N) is split into k contiguous blocks of ⌊N/k⌋
// rows, the final fold absorbing any remainder. Each fold trains a fresh
// catalog model from scratch on the complement (full epoch budget, no
// early stopping) and evaluates it once on the held-out block. Every
// fold owns its own model and slices; nothing is shared between folds.
func CrossValidate(X *mat.Dense, y *mat.VecDense, cfg ModelConfig, folds int) (*CVScore, error) {
	n, cols := X.Dims()
	if n == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("CrossValidate", n, y.Len(), 0)
	}
	if folds < 2 {
		return nil, errors.NewValidationError("folds", "must be at least 2", folds)
	}
	if folds > n {
		return nil, errors.NewValidationError("folds", "must not exceed the sample count", folds)
	}

	logger := slog.Default().With(
		mllog.ComponentKey, "automl",
		mllog.OperationKey, "cross_validate",
	)

	score := &CVScore{
		FoldAccuracies: make([]float64, 0, folds),
		FoldLosses:     make([]float64, 0, folds),
	}

	for f := 0; f < folds; f++ {
		start, end := foldSpan(n, folds, f)

		loss, acc, err := runFold(X, y, cfg, cols, start, end)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", f)
		}

		logger.Debug("fold evaluated",
			mllog.FoldKey, f,
			mllog.LossKey, loss,
			mllog.AccuracyKey, acc,
		)

		score.FoldLosses = append(score.FoldLosses, loss)
		score.FoldAccuracies = append(score.FoldAccuracies, acc)
	}

	score.Accuracy = stat.Mean(score.FoldAccuracies, nil)
	score.Loss = stat.Mean(score.FoldLosses, nil)
	score.AccuracyStd = stat.StdDev(score.FoldAccuracies, nil)
	return score, nil
}

// foldSpan returns the half-open validation block [start, end) of fold f.
// Blocks are contiguous, ⌊n/folds⌋ rows each, the final fold absorbing
// the remainder, so together they partition [0, n).
func foldSpan(n, folds, f int) (start, end int) {
	size := n / folds
	start = f * size
	end = start + size
	if f == folds-1 {
		end = n
	}
	return start, end
}

// runFold trains and evaluates a single fold. All fold-scoped resources
// live inside this call, so any exit path, success or error, releases
// them with the stack frame.
func runFold(X *mat.Dense, y *mat.VecDense, cfg ModelConfig, cols, valStart, valEnd int) (loss, accuracy float64, err error) {
	defer errors.Recover(&err, "automl.runFold")

	n, _ := X.Dims()
	valRows := valEnd - valStart
	trainRows := n - valRows

	// Gather the complement in original row order.
	trainX := mat.NewDense(trainRows, cols, nil)
	trainY := mat.NewVecDense(trainRows, nil)
	row := 0
	for i := 0; i < n; i++ {
		if i >= valStart && i < valEnd {
			continue
		}
		for j := 0; j < cols; j++ {
			trainX.Set(row, j, X.At(i, j))
		}
		trainY.SetVec(row, y.AtVec(i))
		row++
	}

	valX := X.Slice(valStart, valEnd, 0, cols).(*mat.Dense)
	valY := mat.NewVecDense(valRows, nil)
	for i := 0; i < valRows; i++ {
		valY.SetVec(i, y.AtVec(valStart+i))
	}

	model, err := cfg.buildModel(cols)
	if err != nil {
		return 0, 0, err
	}

	// Folds always train their full epoch budget.
	trainer := network.NewTrainer(cfg.trainConfig(0))
	if _, err := trainer.Fit(model, trainX, trainY, nil); err != nil {
		return 0, 0, err
	}

	return model.Evaluate(valX, valY)
}
