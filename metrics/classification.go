// Package metrics は二値分類の評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// logLossEps は log(0) を避けるための確率のクリッピング値
const logLossEps = 1e-15

// Accuracy は予測確率を0.5の閾値で二値化し、正解率を計算する
func Accuracy(yTrue, yProb *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yProb.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yProb.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		pred := 0.0
		if yProb.AtVec(i) > 0.5 {
			pred = 1.0
		}
		if pred == yTrue.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// LogLoss は二値交差エントロピー（binary cross-entropy）を計算する
// 確率は log(0) を避けるため [eps, 1-eps] にクリップされる
func LogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}

	if yProb.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yProb.Len(), 0)
	}

	var loss float64
	for i := 0; i < n; i++ {
		p := yProb.AtVec(i)
		if p < logLossEps {
			p = logLossEps
		} else if p > 1-logLossEps {
			p = 1 - logLossEps
		}

		if yTrue.AtVec(i) == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}

	return loss / float64(n), nil
}

// ConfusionMatrix は0.5閾値での混同行列 [TN, FP, FN, TP] を計算する
func ConfusionMatrix(yTrue, yProb *mat.VecDense) ([4]int, error) {
	var cm [4]int

	n := yTrue.Len()
	if n == 0 {
		return cm, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yProb.Len() != n {
		return cm, errors.NewDimensionError("ConfusionMatrix", n, yProb.Len(), 0)
	}

	for i := 0; i < n; i++ {
		pred := 0
		if yProb.AtVec(i) > 0.5 {
			pred = 1
		}
		actual := 0
		if yTrue.AtVec(i) == 1 {
			actual = 1
		}

		switch {
		case actual == 0 && pred == 0:
			cm[0]++
		case actual == 0 && pred == 1:
			cm[1]++
		case actual == 1 && pred == 0:
			cm[2]++
		default:
			cm[3]++
		}
	}

	return cm, nil
}
