// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game  GameConfig  `toml:"game"`
	Serve ServeConfig `toml:"serve"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	StepMs     *int    `toml:"step-ms"`
	MinStepMs  *int    `toml:"min-step-ms"`
	RampMs     *int    `toml:"ramp-ms"`
	PauseMs    *int    `toml:"pause-ms"`
	DebounceMs *int    `toml:"debounce-ms"`
	Mute       *bool   `toml:"mute"`
	NoAudio    *bool   `toml:"no-audio"`
	SamplesDir *string `toml:"samples-dir"`
}

// ServeConfig maps asset-server settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
	Dir  *string `toml:"dir"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
