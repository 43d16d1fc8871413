package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameboard/internal/canvas"
)

func noEnv(string) string { return "" }

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	config, err := loadConfigFrom(filepath.Join(home, configFileName), home, noEnv)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".frameboard", "frameboard.db"), config.Database)
	assert.Equal(t, "canvasState", config.StorageKey)
	assert.True(t, config.StartMenu)
	assert.Equal(t, canvas.DefaultGridSize, config.Canvas.GridSize)
	assert.Equal(t, canvas.DefaultFrameGap, config.Canvas.FrameGap)
	assert.Equal(t, slog.LevelInfo, config.Level())
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
save_directory: ~/designs
database: ~/data/board.db
log_level: debug
start_menu: false
canvas:
  grid_size: 8
  snap_to_grid: true
  edge_snap_threshold: 4
`), 0o644))

	config, err := loadConfigFrom(path, home, noEnv)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "designs"), config.SaveDirectory)
	assert.Equal(t, filepath.Join(home, "data", "board.db"), config.Database)
	assert.False(t, config.StartMenu)
	assert.Equal(t, slog.LevelDebug, config.Level())
	assert.Equal(t, 8, config.Canvas.GridSize)
	assert.Equal(t, 4.0, config.Canvas.EdgeSnapThreshold)
	assert.Equal(t, canvas.DefaultFrameGap, config.Canvas.FrameGap, "unset keys keep defaults")

	s := config.initialState()
	assert.True(t, s.SnapToGrid)
	assert.Equal(t, 8, s.GridSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	env := map[string]string{
		"FRAMEBOARD_DB":        ":memory:",
		"FRAMEBOARD_LISTEN":    ":9999",
		"FRAMEBOARD_LOG_LEVEL": "warn",
	}
	config, err := loadConfigFrom(filepath.Join(home, configFileName), home, func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, ":memory:", config.Database)
	assert.Equal(t, ":9999", config.Listen)
	assert.Equal(t, slog.LevelWarn, config.Level())
}

func TestLoadConfig_Malformed(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("canvas: [unclosed"), 0o644))

	_, err := loadConfigFrom(path, home, noEnv)
	assert.ErrorContains(t, err, "parsing")
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\ncanvas:\n  grid_size: -3\n"), 0o644))

	config, err := loadConfigFrom(path, home, noEnv)
	require.NoError(t, err)
	assert.Equal(t, canvas.DefaultGridSize, config.Canvas.GridSize)
	assert.Equal(t, slog.LevelInfo, config.Level())
}

func TestGetSavePath(t *testing.T) {
	config := &Config{}
	assert.Equal(t, "a.json", config.GetSavePath("a.json"))

	dir := filepath.Join(t.TempDir(), "out")
	config.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "a.json"), config.GetSavePath("a.json"))
	assert.DirExists(t, dir)
}
