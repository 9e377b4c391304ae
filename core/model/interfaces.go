// Package model provides shared interfaces for trainable models.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Predictor is the interface for models that can make predictions.
type Predictor interface {
	// Predict returns predictions for the given input matrix.
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy of the prediction against y.
	Score(X mat.Matrix, y *mat.VecDense) (float64, error)
}

// Classifier combines interfaces for binary classification models.
type Classifier interface {
	Predictor
	Scorer

	// PredictProba returns positive-class probability estimates.
	PredictProba(X mat.Matrix) (*mat.VecDense, error)
}

// Transformer is the interface for stateless-after-fit data transformers.
type Transformer interface {
	// Fit learns transformation statistics from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (*mat.Dense, error)
}
