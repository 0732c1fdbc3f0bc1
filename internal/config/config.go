// Package config loads console configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration makes YAML values like "10s" parse into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\"")
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds everything the console needs to start.
type Config struct {
	API struct {
		BaseURL string   `yaml:"base_url"`
		Timeout Duration `yaml:"timeout"`
	} `yaml:"api"`
	Session struct {
		File string `yaml:"file"`
	} `yaml:"session"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.API.BaseURL = "http://localhost:5000/api"
	cfg.API.Timeout = Duration(30 * time.Second)
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the config file at path (optional), applies a .env file when
// one exists, then applies environment overrides. Missing files fall back to
// defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("api.base_url is required")
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = Duration(30 * time.Second)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONSOLE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CONSOLE_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("CONSOLE_SESSION_FILE"); v != "" {
		cfg.Session.File = v
	}
	if v := os.Getenv("CONSOLE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CONSOLE_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
}
