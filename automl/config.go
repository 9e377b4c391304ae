// Package automl implements the hyperparameter search core: configuration
// generation, k-fold cross-validation, and the trial loop that produces a
// ranked leaderboard of trained binary classifiers.
package automl

import (
	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// ModelConfig is one trial's hyperparameter bundle. The configuration
// generator derives many independent instances from one base config;
// instances are never mutated after creation.
type ModelConfig struct {
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batch_size"`
	LearningRate float64 `json:"learning_rate"`

	// TargetVariable is the dataset column trained against. The search
	// layer carries it through unchanged for the caller's bookkeeping.
	TargetVariable string `json:"target_variable,omitempty"`

	// ModelType is a catalog tag: simple, deep, wide, or linear.
	// Unknown tags resolve to simple.
	ModelType string `json:"model_type,omitempty"`

	// HiddenLayers lists hidden widths outer-to-inner. Only the deep
	// catalog variant reads the full list.
	HiddenLayers []int `json:"hidden_layers,omitempty"`

	// DropoutRate in [0, 1); 0 disables dropout.
	DropoutRate float64 `json:"dropout_rate,omitempty"`

	// Optimizer is an optimizer tag: adam, sgd, rmsprop, or adagrad.
	// Unknown tags resolve to adam.
	Optimizer string `json:"optimizer,omitempty"`

	// Activation is a hidden-layer activation tag: relu, tanh, or
	// sigmoid. Unknown tags resolve to relu.
	Activation string `json:"activation,omitempty"`
}

// buildSpec maps the config to the catalog's architecture knobs.
func (c ModelConfig) buildSpec() network.BuildSpec {
	return network.BuildSpec{
		HiddenLayers: c.HiddenLayers,
		DropoutRate:  c.DropoutRate,
		Activation:   network.ActivationFromTag(c.Activation),
	}
}

// trainConfig maps the config to the trainer's knobs. Early stopping
// patience is supplied by the run policy, not the per-trial config.
func (c ModelConfig) trainConfig(patience int) network.TrainConfig {
	return network.TrainConfig{
		Epochs:                c.Epochs,
		BatchSize:             c.BatchSize,
		LearningRate:          c.LearningRate,
		Optimizer:             c.Optimizer,
		EarlyStoppingPatience: patience,
	}
}

// buildModel constructs the untrained catalog model for this config.
func (c ModelConfig) buildModel(inputFeatures int) (*network.Model, error) {
	return network.Build(network.ModelTypeFromTag(c.ModelType), inputFeatures, c.buildSpec())
}

// AutoMLConfig is the search-run policy.
type AutoMLConfig struct {
	// MaxTrials caps the number of trials actually executed.
	MaxTrials int `json:"max_trials"`

	// ValidationSplit is advisory; the trainer's fixed tail split and
	// cross-validation folds drive validation directly.
	ValidationSplit float64 `json:"validation_split"`

	// EarlyStoppingPatience is threaded to the final full-data fit of
	// each trial; 0 disables. Cross-validation folds always train their
	// full epoch budget.
	EarlyStoppingPatience int `json:"early_stopping_patience"`

	// CrossValidationFolds is the k in k-fold cross-validation; must be
	// at least 2.
	CrossValidationFolds int `json:"cross_validation_folds"`
}

// DefaultAutoMLConfig returns the defaults used by the studio UI.
func DefaultAutoMLConfig() AutoMLConfig {
	return AutoMLConfig{
		MaxTrials:             10,
		ValidationSplit:       0.2,
		EarlyStoppingPatience: 5,
		CrossValidationFolds:  3,
	}
}

// Validate checks the run policy before a search starts.
func (c AutoMLConfig) Validate() error {
	if c.MaxTrials < 1 {
		return errors.NewValidationError("MaxTrials", "must be at least 1", c.MaxTrials)
	}
	if c.CrossValidationFolds < 2 {
		return errors.NewValidationError("CrossValidationFolds", "must be at least 2", c.CrossValidationFolds)
	}
	if c.ValidationSplit <= 0 || c.ValidationSplit >= 1 {
		return errors.NewValidationError("ValidationSplit", "must be in (0, 1)", c.ValidationSplit)
	}
	if c.EarlyStoppingPatience < 0 {
		return errors.NewValidationError("EarlyStoppingPatience", "must not be negative", c.EarlyStoppingPatience)
	}
	return nil
}
