// Package mlstudio provides an AutoML engine for binary classification
// on tabular data: a fixed catalog of feed-forward models, a minibatch
// trainer, k-fold cross-validation, and a search loop that ranks trained
// models into a leaderboard.
//
// # Packages
//
// - dataset: the named-column sample matrix and feature/target split
// - network: model catalog, optimizers, and the minibatch trainer
// - automl: configuration generation, cross-validation, and the trial loop
// - metrics: binary classification metrics
// - persist: compressed, checksummed model artifacts
// - viz: learning-curve rendering
//
// # Quick Start
//
// Run a search over a feature matrix and binary target vector:
//
//	base := automl.ModelConfig{Epochs: 20, BatchSize: 32, LearningRate: 0.001}
//	cfg := automl.DefaultAutoMLConfig()
//
//	orch := automl.NewOrchestrator()
//	leaderboard, err := orch.Run(features, target, base, cfg,
//	    func(percent float64, trial int, best *automl.ModelResult) {
//	        fmt.Printf("trial %d: %.0f%%\n", trial, percent)
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bestModel := leaderboard[0].Model
//	probs, _ := bestModel.PredictProba(features)
//	_ = probs
package mlstudio
