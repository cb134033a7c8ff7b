package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/internal/config"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tune.yaml")
	body := "matmul:\n  a_transpose: true\noptimize:\n  max_declutter_passes: 3\nstreaming:\n  time_axis: 1\n  pulse_width: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.MatMul.ATranspose)
	assert.False(t, cfg.MatMul.BTranspose)
	assert.Equal(t, 3, cfg.Optimize.MaxDeclutterPasses)
	assert.Equal(t, 1, cfg.Streaming.TimeAxis)
	assert.Equal(t, int64(8), cfg.Streaming.PulseWidth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultHasDeclutterBudget(t *testing.T) {
	assert.Equal(t, 8, config.Default().Optimize.MaxDeclutterPasses)
}
