// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Lang      *string         `toml:"lang"`
	LogLevel  *string         `toml:"log-level"`
	Adventure AdventureConfig `toml:"adventure"`
	Daily     DailyConfig     `toml:"daily"`
	Feedback  FeedbackConfig  `toml:"feedback"`
}

// AdventureConfig maps adventure-mode settings.
type AdventureConfig struct {
	Rounds   *int `toml:"rounds"`
	MaxLevel *int `toml:"max-level"`
	Level    *int `toml:"level"`
}

// DailyConfig maps daily-training settings.
type DailyConfig struct {
	Minutes     *int `toml:"minutes"`
	Level       *int `toml:"level"`
	Floor       *int `toml:"floor"`
	CountFactor *int `toml:"count-factor"`
	FloorCount  *int `toml:"floor-count"`
}

// FeedbackConfig maps coach feedback settings. The API key is read from the
// environment only.
type FeedbackConfig struct {
	Enabled *bool          `toml:"enabled"`
	Model   *string        `toml:"model"`
	Timeout *time.Duration `toml:"timeout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
