package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cockroachdb/errors"
)

func TestNewLogger(t *testing.T) {
	t.Run("emits JSON with attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "info")

		logger.Info("trial completed",
			TrialKey, 3,
			AccuracyKey, 0.91,
		)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "trial completed", record["msg"])
		assert.EqualValues(t, 3, record["search.trial"])
		assert.EqualValues(t, 0.91, record["metrics.accuracy"])
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "warn")

		logger.Info("should be dropped")
		assert.Zero(t, buf.Len())

		logger.Warn("should be emitted")
		assert.NotZero(t, buf.Len())
	})

	t.Run("error attr carries stacktrace", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "error")

		err := errors.New("training failed")
		logger.Error("trial failed", ErrAttr(err))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Contains(t, record, ErrAttrKey)
		assert.Contains(t, record, StacktraceAttrKey)
	})
}

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ToLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ToLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, ToLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ToLogLevel("error"))
	assert.Panics(t, func() { ToLogLevel("verbose") })
}
