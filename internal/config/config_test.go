package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	runerrors "github.com/michkochris/rune-analyze/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfig(t, `
verbosity: 2
format: json
safe_mode: true
triggers:
  - name: net-watch
    pattern: "NET:*"
  - name: quiet-watch
    pattern: "PERF:slow"
    enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.SafeMode)
	require.Len(t, cfg.Triggers, 2)
	assert.Equal(t, "NET:*", cfg.Triggers[0].Pattern)
	assert.Nil(t, cfg.Triggers[0].Enabled)
	require.NotNil(t, cfg.Triggers[1].Enabled)
	assert.False(t, *cfg.Triggers[1].Enabled)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "format: [unclosed")

	_, err := Load(path)

	var re *runerrors.RuneError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, runerrors.ErrCodeFileUnmarshal, re.Code)
}

func TestLoad_UnknownFormatRejected(t *testing.T) {
	path := writeConfig(t, "format: xml")

	_, err := Load(path)

	var re *runerrors.RuneError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, runerrors.ErrCodeConfigInvalid, re.Code)
}

func TestLoad_TriggerNeedsNameAndPattern(t *testing.T) {
	path := writeConfig(t, `
triggers:
  - name: nameless
`)

	_, err := Load(path)

	var re *runerrors.RuneError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, runerrors.ErrCodeConfigInvalid, re.Code)
}
