package persist

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// fittedModel trains a small classifier for roundtrip tests.
func fittedModel(t *testing.T) (*network.Model, *mat.Dense) {
	t.Helper()

	n := 40
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			X.Set(i, 0, 1)
			X.Set(i, 1, 1)
			y.SetVec(i, 1)
		} else {
			X.Set(i, 0, -1)
			X.Set(i, 1, -1)
		}
	}

	m, err := network.Build(network.ModelTypeSimple, 2, network.BuildSpec{})
	require.NoError(t, err)

	trainer := network.NewTrainer(network.TrainConfig{
		Epochs:       5,
		BatchSize:    8,
		LearningRate: 0.1,
		Optimizer:    "adam",
	})
	_, err = trainer.Fit(m, X, y, nil)
	require.NoError(t, err)
	return m, X
}

func TestSaveLoadRoundtrip(t *testing.T) {
	m, X := fittedModel(t)

	var buf bytes.Buffer
	require.NoError(t, Save(m, &buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.True(t, loaded.IsFitted())
	assert.Equal(t, m.Kind(), loaded.Kind())
	assert.Equal(t, m.InputDim(), loaded.InputDim())
	assert.Equal(t, m.NumParams(), loaded.NumParams())

	// 復元したモデルは元のモデルと同じ確率を返す
	want, err := m.PredictProba(X)
	require.NoError(t, err)
	got, err := loaded.PredictProba(X)
	require.NoError(t, err)
	for i := 0; i < want.Len(); i++ {
		assert.InDelta(t, want.AtVec(i), got.AtVec(i), 1e-12)
	}
}

func TestSaveRequiresFittedModel(t *testing.T) {
	m, err := network.Build(network.ModelTypeLinear, 2, network.BuildSpec{})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Save(m, &buf)
	require.Error(t, err)

	var nfErr *errors.NotFittedError
	assert.ErrorAs(t, err, &nfErr)
}

func TestLoadRejectsCorruptArtifacts(t *testing.T) {
	m, _ := fittedModel(t)

	var buf bytes.Buffer
	require.NoError(t, Save(m, &buf))
	artifact := buf.Bytes()

	t.Run("truncated header", func(t *testing.T) {
		_, err := Load(bytes.NewReader(artifact[:10]))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("bad magic", func(t *testing.T) {
		mangled := append([]byte(nil), artifact...)
		mangled[0] = 'X'
		_, err := Load(bytes.NewReader(mangled))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		mangled := append([]byte(nil), artifact...)
		mangled[len(mangled)-1] ^= 0xFF
		_, err := Load(bytes.NewReader(mangled))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Load(bytes.NewReader(artifact[:len(artifact)-5]))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Load(bytes.NewReader(nil))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("implausible length field", func(t *testing.T) {
		// 正しいマジックと巨大な長さだけを持つヘッダ。割り付け前に
		// 拒否されなければならない
		var header [24]byte
		copy(header[:8], artifact[:8])
		binary.LittleEndian.PutUint64(header[16:24], ^uint64(0))
		_, err := Load(bytes.NewReader(header[:]))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})

	t.Run("zero length field", func(t *testing.T) {
		var header [24]byte
		copy(header[:8], artifact[:8])
		_, err := Load(bytes.NewReader(header[:]))
		assert.ErrorIs(t, err, errors.ErrCorruptArtifact)
	})
}

func TestExportImport(t *testing.T) {
	m, X := fittedModel(t)
	path := filepath.Join(t.TempDir(), "model.mls")

	stamp, err := Export(m, path)
	require.NoError(t, err)

	// タイムスタンプは RFC3339
	_, err = time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)

	loaded, err := Import(path)
	require.NoError(t, err)

	want, err := m.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope.mls"))
	assert.Error(t, err)
}
