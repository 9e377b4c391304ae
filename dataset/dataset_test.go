package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

func TestSplitFeatureTarget(t *testing.T) {
	t.Run("extracts target column", func(t *testing.T) {
		data := mat.NewDense(3, 3, []float64{
			1, 10, 0,
			2, 20, 1,
			3, 30, 0,
		})
		pd, err := NewProcessedData([]string{"a", "b", "target"}, data)
		require.NoError(t, err)

		X, y, err := SplitFeatureTarget(pd, "target")
		require.NoError(t, err)

		rows, cols := X.Dims()
		assert.Equal(t, 3, rows)
		assert.Equal(t, 2, cols)

		// 行順は保持される
		assert.Equal(t, 1.0, X.At(0, 0))
		assert.Equal(t, 10.0, X.At(0, 1))
		assert.Equal(t, 3.0, X.At(2, 0))
		assert.Equal(t, 30.0, X.At(2, 1))

		assert.Equal(t, 0.0, y.AtVec(0))
		assert.Equal(t, 1.0, y.AtVec(1))
		assert.Equal(t, 0.0, y.AtVec(2))
	})

	t.Run("target in the middle", func(t *testing.T) {
		data := mat.NewDense(2, 3, []float64{
			1, 0, 10,
			2, 1, 20,
		})
		pd, err := NewProcessedData([]string{"a", "label", "b"}, data)
		require.NoError(t, err)

		X, y, err := SplitFeatureTarget(pd, "label")
		require.NoError(t, err)

		assert.Equal(t, 1.0, X.At(0, 0))
		assert.Equal(t, 10.0, X.At(0, 1))
		assert.Equal(t, 0.0, y.AtVec(0))
		assert.Equal(t, 1.0, y.AtVec(1))
	})

	t.Run("missing column is a configuration error", func(t *testing.T) {
		data := mat.NewDense(2, 2, []float64{1, 0, 2, 1})
		pd, err := NewProcessedData([]string{"a", "b"}, data)
		require.NoError(t, err)

		_, _, err = SplitFeatureTarget(pd, "nope")
		require.Error(t, err)

		var colErr *errors.MissingColumnError
		require.True(t, errors.As(err, &colErr))
		assert.Equal(t, "nope", colErr.Column)
	})
}

func TestNewProcessedData(t *testing.T) {
	t.Run("column count must match", func(t *testing.T) {
		data := mat.NewDense(2, 3, nil)
		_, err := NewProcessedData([]string{"a", "b"}, data)
		assert.Error(t, err)
	})

	t.Run("nil data rejected", func(t *testing.T) {
		_, err := NewProcessedData([]string{"a"}, nil)
		assert.Error(t, err)
	})
}

func TestStandardScaler(t *testing.T) {
	t.Run("standardizes to zero mean unit variance", func(t *testing.T) {
		X := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

		scaler := NewStandardScalerDefault()
		out, err := scaler.FitTransform(X)
		require.NoError(t, err)

		var sum float64
		for i := 0; i < 4; i++ {
			sum += out.At(i, 0)
		}
		assert.InDelta(t, 0, sum/4, 1e-12)
		assert.InDelta(t, 5, scaler.Mean[0], 1e-12)
	})

	t.Run("zero variance column passes through", func(t *testing.T) {
		X := mat.NewDense(3, 1, []float64{7, 7, 7})

		scaler := NewStandardScalerDefault()
		out, err := scaler.FitTransform(X)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			assert.Equal(t, 0.0, out.At(i, 0))
		}
	})

	t.Run("transform before fit", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
		require.Error(t, err)

		var notFitted *errors.NotFittedError
		assert.True(t, errors.As(err, &notFitted))
	})

	t.Run("dimension mismatch on transform", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

		_, err := scaler.Transform(mat.NewDense(2, 3, nil))
		assert.Error(t, err)
	})
}
