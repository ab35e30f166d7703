package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	runeerrors "github.com/michkochris/rune-analyze/internal/errors"
)

func TestFromVerbosity(t *testing.T) {
	assert.Equal(t, LevelError, FromVerbosity(0))
	assert.Equal(t, LevelWarn, FromVerbosity(1))
	assert.Equal(t, LevelInfo, FromVerbosity(2))
	assert.Equal(t, LevelDebug, FromVerbosity(3))
	assert.Equal(t, LevelDebug, FromVerbosity(7))
	assert.Equal(t, LevelError, FromVerbosity(-1))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelInfo, ParseLevel("garbage"))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: NewOutput(&buf)})

	logger.Info("invisible")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "invisible")
	assert.Contains(t, out, "visible")
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(&buf)})

	logger.Info("structured", "pid", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["msg"])
	assert.Equal(t, float64(42), entry["pid"])
}

func TestWithError_RuneErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(&buf)})

	err := runeerrors.NewTargetNotFoundError("/tmp/x")
	logger.WithError(err).Error("validation failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, string(runeerrors.ErrCodeTargetNotFound), entry["error_code"])
	assert.Contains(t, entry["error"], "/tmp/x")
	assert.NotEmpty(t, entry["suggestions"])
}

func TestWithError_NilErrorIsNoop(t *testing.T) {
	logger := Default()

	assert.Same(t, logger, logger.WithError(nil))
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatText, Output: NewOutput(&buf)})
	SetDefaultLogger(logger)

	assert.Same(t, logger, DefaultLogger())
}
