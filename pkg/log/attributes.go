// Package log defines standard attribute keys for training and search operations.
//
// Using these keys consistently across the orchestrator, trainer, and
// cross-validator keeps run logs filterable: every trial, fold, and epoch
// event carries the same structured shape.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the catalog model type being trained.
	// Examples: "simple", "deep", "wide", "linear"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "evaluate", "cross_validate", "automl_run"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "network", "automl", "dataset"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// BatchSizeKey indicates the minibatch size used for fitting.
	BatchSizeKey = "data.batch_size"
)

// Search progress.
const (
	// TrialKey records the 1-based trial index within an AutoML run.
	TrialKey = "search.trial"

	// TrialsTotalKey records the number of trials the run will attempt.
	TrialsTotalKey = "search.trials_total"

	// FoldKey records the 0-based fold index within cross-validation.
	FoldKey = "search.fold"

	// SkippedKey records how many trials were skipped due to errors.
	SkippedKey = "search.skipped"
)

// Performance and metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records the loss value during training or evaluation.
	LossKey = "metrics.loss"

	// ValAccuracyKey records validation accuracy, in [0, 1].
	ValAccuracyKey = "metrics.val_accuracy"

	// ValLossKey records validation loss.
	ValLossKey = "metrics.val_loss"

	// EpochKey records the 0-based epoch number during training.
	EpochKey = "training.epoch"
)
