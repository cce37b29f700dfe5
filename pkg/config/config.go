// Package config loads meshlens settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath names the environment variable that selects the config file
// when no path is given explicitly.
const EnvConfigPath = "MESHLENS_CONFIG"

// DefaultPath is used when neither a flag nor EnvConfigPath names a file.
const DefaultPath = "meshlens.toml"

// Config is the full meshlens configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Analysis AnalysisConfig `toml:"analysis"`
	Advisor  AdvisorConfig  `toml:"advisor"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// AnalysisConfig bounds the mesh pipeline.
type AnalysisConfig struct {
	// MaxFileBytes rejects larger uploads before decoding. 0 disables the check.
	MaxFileBytes int64 `toml:"max_file_bytes"`
}

// AdvisorConfig points at an OpenAI-compatible chat completions endpoint.
type AdvisorConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request stream timeout.
func (a AdvisorConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// APIKey reads the key from the configured environment variable.
func (a AdvisorConfig) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Analysis: AnalysisConfig{
			MaxFileBytes: 100 << 20,
		},
		Advisor: AdvisorConfig{
			BaseURL:        "https://api.groq.com/openai/v1",
			Model:          "llama-3.3-70b-versatile",
			APIKeyEnv:      "GROQ_API_KEY",
			TimeoutSeconds: 120,
		},
	}
}

// Resolve picks the config path: explicit, then EnvConfigPath, then
// DefaultPath.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file is not an error and
// yields Default(); keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Analysis.MaxFileBytes < 0 {
		return errors.New("analysis.max_file_bytes must not be negative")
	}
	if c.Advisor.TimeoutSeconds <= 0 {
		return errors.New("advisor.timeout_seconds must be positive")
	}
	if c.Advisor.Model == "" {
		return errors.New("advisor.model must be set")
	}
	return nil
}

// Encode renders c as TOML, used by "meshlens config" to print the
// effective settings.
func Encode(c Config) ([]byte, error) {
	return toml.Marshal(c)
}
