package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"frameboard/internal/canvas"
	"frameboard/internal/store"
)

const configFileName = ".frameboard.yaml"

type CanvasConfig struct {
	GridSize          int     `yaml:"grid_size"`
	SnapToGrid        bool    `yaml:"snap_to_grid"`
	FrameGap          float64 `yaml:"frame_gap"`
	EdgeSnapThreshold float64 `yaml:"edge_snap_threshold"`
}

type Config struct {
	SaveDirectory string       `yaml:"save_directory"`
	Database      string       `yaml:"database"`
	StorageKey    string       `yaml:"storage_key"`
	LogFile       string       `yaml:"log_file"`
	LogLevel      string       `yaml:"log_level"`
	Listen        string       `yaml:"listen"`
	StartMenu     bool         `yaml:"start_menu"`
	Canvas        CanvasConfig `yaml:"canvas"`

	home string
}

func defaultConfig(home string) *Config {
	return &Config{
		Database:   filepath.Join(home, ".frameboard", "frameboard.db"),
		StorageKey: store.DefaultKey,
		LogFile:    filepath.Join(home, ".frameboard", "frameboard.log"),
		LogLevel:   "info",
		Listen:     "127.0.0.1:8420",
		StartMenu:  true,
		Canvas: CanvasConfig{
			GridSize:          canvas.DefaultGridSize,
			FrameGap:          canvas.DefaultFrameGap,
			EdgeSnapThreshold: canvas.DefaultEdgeSnapThreshold,
		},
		home: home,
	}
}

// loadConfig reads ~/.frameboard.yaml when present. A missing file is not an
// error; a malformed one is.
func loadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return loadConfigFrom(filepath.Join(home, configFileName), home, os.Getenv)
}

func loadConfigFrom(path, home string, getenv func(string) string) (*Config, error) {
	config := defaultConfig(home)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := getenv("FRAMEBOARD_DB"); v != "" {
		config.Database = v
	}
	if v := getenv("FRAMEBOARD_LISTEN"); v != "" {
		config.Listen = v
	}
	if v := getenv("FRAMEBOARD_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}

	config.SaveDirectory = config.expand(config.SaveDirectory)
	if config.Database != ":memory:" {
		config.Database = config.expand(config.Database)
	}
	config.LogFile = config.expand(config.LogFile)
	if config.StorageKey == "" {
		config.StorageKey = store.DefaultKey
	}
	if config.Canvas.GridSize <= 0 {
		config.Canvas.GridSize = canvas.DefaultGridSize
	}
	if config.Canvas.FrameGap < 0 {
		config.Canvas.FrameGap = canvas.DefaultFrameGap
	}
	if config.Canvas.EdgeSnapThreshold < 0 {
		config.Canvas.EdgeSnapThreshold = canvas.DefaultEdgeSnapThreshold
	}
	return config, nil
}

// expand resolves a leading ~ and makes relative paths absolute.
func (c *Config) expand(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(c.home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// engineOptions maps the canvas section onto engine settings.
func (c *Config) engineOptions(logger *slog.Logger) []canvas.EngineOption {
	return []canvas.EngineOption{
		canvas.WithLogger(logger),
		canvas.WithFrameGap(c.Canvas.FrameGap),
		canvas.WithEdgeSnapThreshold(c.Canvas.EdgeSnapThreshold),
	}
}

// initialState is the state a fresh canvas starts from before any restore.
func (c *Config) initialState() canvas.State {
	s := canvas.NewState()
	s.GridSize = c.Canvas.GridSize
	s.SnapToGrid = c.Canvas.SnapToGrid
	return s
}
