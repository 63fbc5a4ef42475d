// Package daemon manages the Ascend server lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all server configuration.
type Config struct {
	API         APIConfig         `toml:"api"`
	Storage     StorageConfig     `toml:"storage"`
	Progression ProgressionConfig `toml:"progression"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// ProgressionConfig tunes the XP engine.
type ProgressionConfig struct {
	DailyXPLimit int64 `toml:"daily_xp_limit"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8732,
		},
		Storage: StorageConfig{
			Dir: ascendHome(),
		},
		Progression: ProgressionConfig{
			DailyXPLimit: 2000,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from $ASCEND_HOME/config.toml, falling back to
// defaults when no file exists yet.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(ascendHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Progression.DailyXPLimit <= 0 {
		cfg.Progression.DailyXPLimit = 2000
	}
	return cfg, nil
}

// SaveConfig writes the config to $ASCEND_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(ascendHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// ascendHome returns the Ascend data directory.
func ascendHome() string {
	if env := os.Getenv("ASCEND_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ascend")
}

// AscendHome is exported for use by other packages.
func AscendHome() string {
	return ascendHome()
}
