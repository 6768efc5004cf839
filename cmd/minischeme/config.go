package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFile  = ".minischeme.yaml"
	historyFile = ".minischeme_history"
)

type Config struct {
	Prompt         string   `yaml:"prompt"`
	ContinuePrompt string   `yaml:"continue_prompt"`
	HistoryFile    string   `yaml:"history_file"`
	Preload        []string `yaml:"preload"`
	LogLevel       string   `yaml:"log_level"`
}

func defaultConfigPath(home string) string {
	return filepath.Join(home, configFile)
}

func defaultConfig(home string) Config {
	return Config{
		Prompt:         "λ> ",
		ContinuePrompt: ".. ",
		HistoryFile:    filepath.Join(home, historyFile),
		LogLevel:       "warn",
	}
}

// loadConfig overlays the settings found in path onto cfg. A missing file
// leaves cfg untouched.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
