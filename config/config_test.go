package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Greater(t, cfg.Planner.ValidationStep, 0.0)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corbaserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: 0.0.0.0
port: 2809
log:
  level: debug
  pretty: true
planner:
  maxIterations: 5000
plugins:
  - extra
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 2809, cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 5000, cfg.Planner.MaxIterations)
	assert.Equal(t, []string{"extra"}, cfg.Plugins)

	// Unset keys keep their defaults
	assert.Greater(t, cfg.Planner.ValidationStep, 0.0)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nosuch.yaml"))
	assert.Error(t, err)
}

func TestLoadXDGFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// No file: defaults apply
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "hpp"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "hpp", "corbaserver.yaml"),
		[]byte("port: 4321\n"), 0o644))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.Port)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 700000\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("planner:\n  maxIterations: -1\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
