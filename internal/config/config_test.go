package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"detailist/internal/compare"
	"detailist/internal/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps Load away from the developer's own config files.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, viewport.DefaultBounds(), cfg.Bounds())
	assert.Equal(t, viewport.DefaultSteps(), cfg.Steps())
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.False(t, cfg.Dev.HotReload)
	assert.Empty(t, cfg.File)

	cc, err := cfg.CompareConfig()
	require.NoError(t, err)
	assert.Equal(t, compare.DefaultConfig(), cc)
	assert.Equal(t, cfg, Default())
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
canvas:
  width: 3840
  height: 2160
window:
  width: 640
  height: 480
debounce: 120ms
compare:
  mode: Simple Diff
  strength: 70
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 3840, cfg.Bounds().Canvas.Width)
	assert.Equal(t, 480, cfg.Bounds().Window.Height)
	assert.Equal(t, 120*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Nudge.FastStep)

	cc, err := cfg.CompareConfig()
	require.NoError(t, err)
	assert.Equal(t, compare.Config{Mode: compare.ModeSimpleDiff, Strength: 70}, cc)
}

func TestLoadDiscoversWorkingDirectoryFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("detailist.yaml", []byte("nudge:\n  step: 3\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Steps().Normal)
	assert.NotEmpty(t, cfg.File)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DETAILIST_WINDOW_WIDTH", "300")
	t.Setenv("DETAILIST_COMPARE_MODE", "opacity")
	t.Setenv("DETAILIST_DEBOUNCE", "10ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Window.Width)
	assert.Equal(t, 10*time.Millisecond, cfg.Debounce)
	cc, err := cfg.CompareConfig()
	require.NoError(t, err)
	assert.Equal(t, compare.ModeOpacity, cc.Mode)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"window larger than canvas", func(c *Config) { c.Window.Height = c.Canvas.Height + 1 }},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"zero nudge", func(c *Config) { c.Nudge.Step = 0 }},
		{"unknown mode", func(c *Config) { c.Compare.Mode = "sepia" }},
		{"strength too high", func(c *Config) { c.Compare.Strength = 101 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), compare.ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compare:\n  strength: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, compare.ErrInvalidConfig)
}
