// Package dataset holds the tabular data shape consumed by the training
// and search layers, and the feature/target split that feeds them.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// ProcessedData is a numeric sample matrix with named columns.
// Rows are samples, columns are features in declaration order.
// It is produced by the ingestion layer; this package only consumes it.
type ProcessedData struct {
	Columns []string
	Data    *mat.Dense
}

// NewProcessedData validates the column list against the matrix shape.
func NewProcessedData(columns []string, data *mat.Dense) (*ProcessedData, error) {
	if data == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, cols := data.Dims()
	if rows == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(columns) != cols {
		return nil, errors.NewDimensionError("NewProcessedData", len(columns), cols, 1)
	}
	return &ProcessedData{Columns: columns, Data: data}, nil
}

// NumSamples returns the number of rows.
func (pd *ProcessedData) NumSamples() int {
	r, _ := pd.Data.Dims()
	return r
}

// SplitFeatureTarget extracts the named target column and returns the
// remaining columns as a feature matrix together with the target vector.
// The column lookup is an exact string match; row order is preserved.
// A target name absent from Columns is a configuration error carrying
// the missing column name.
func SplitFeatureTarget(pd *ProcessedData, target string) (*mat.Dense, *mat.VecDense, error) {
	targetIdx := -1
	for i, name := range pd.Columns {
		if name == target {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return nil, nil, errors.NewMissingColumnError(target, pd.Columns)
	}

	rows, cols := pd.Data.Dims()
	if cols < 2 {
		return nil, nil, errors.NewValueError("SplitFeatureTarget",
			"dataset must have at least one feature column besides the target")
	}

	features := mat.NewDense(rows, cols-1, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		fcol := 0
		for j := 0; j < cols; j++ {
			if j == targetIdx {
				y.SetVec(i, pd.Data.At(i, j))
				continue
			}
			features.Set(i, fcol, pd.Data.At(i, j))
			fcol++
		}
	}
	return features, y, nil
}
