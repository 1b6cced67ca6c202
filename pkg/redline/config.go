package redline

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the projection engine
type Config struct {
	// OllamaURL is the base URL of the Ollama server backing the matcher
	OllamaURL string
	// Model is the model name used for alignment and translation
	Model string
	// MatchTimeout bounds each individual matcher call
	MatchTimeout time.Duration
	// AcceptThreshold is the minimum similarity score (0-10) a candidate
	// paragraph must beat in the alignment fallback
	AcceptThreshold float64
	// AlignCacheSize is the number of memoized paragraph alignments.
	// 0 disables caching.
	AlignCacheSize int
	// LogLevel controls the verbosity of logging (debug, info, warn, error)
	LogLevel string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OllamaURL:       "http://localhost:11434",
		Model:           "deepseek-r1:1.5b",
		MatchTimeout:    30 * time.Second,
		AcceptThreshold: 5,
		AlignCacheSize:  128,
		LogLevel:        "info",
	}
}

// fileConfig is the YAML shape of the config file; unset fields keep their
// defaults.
type fileConfig struct {
	OllamaURL       string   `yaml:"ollama_url"`
	Model           string   `yaml:"model"`
	MatchTimeout    string   `yaml:"match_timeout"`
	AcceptThreshold *float64 `yaml:"accept_threshold"`
	AlignCacheSize  *int     `yaml:"align_cache_size"`
	LogLevel        string   `yaml:"log_level"`
}

// LoadConfig builds a configuration from defaults, an optional YAML file,
// and REDLINE_* environment overrides, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := cfg.merge(&fc); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(fc *fileConfig) error {
	if fc.OllamaURL != "" {
		c.OllamaURL = fc.OllamaURL
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.MatchTimeout != "" {
		d, err := time.ParseDuration(fc.MatchTimeout)
		if err != nil {
			return fmt.Errorf("invalid match_timeout: %w", err)
		}
		c.MatchTimeout = d
	}
	if fc.AcceptThreshold != nil {
		c.AcceptThreshold = *fc.AcceptThreshold
	}
	if fc.AlignCacheSize != nil {
		c.AlignCacheSize = *fc.AlignCacheSize
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c *Config) applyEnvironment() {
	if val := os.Getenv("REDLINE_OLLAMA_URL"); val != "" {
		c.OllamaURL = val
	}
	if val := os.Getenv("REDLINE_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("REDLINE_MATCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.MatchTimeout = d
		}
	}
	if val := os.Getenv("REDLINE_ACCEPT_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.AcceptThreshold = f
		}
	}
	if val := os.Getenv("REDLINE_ALIGN_CACHE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.AlignCacheSize = n
		}
	}
	if val := os.Getenv("REDLINE_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OllamaURL == "" {
		return errors.New("ollama URL cannot be empty")
	}

	if c.Model == "" {
		return errors.New("model cannot be empty")
	}

	if c.MatchTimeout <= 0 {
		return errors.New("match timeout must be positive")
	}

	if c.AcceptThreshold < 0 || c.AcceptThreshold > 10 {
		return errors.New("accept threshold must be between 0 and 10")
	}

	if c.AlignCacheSize < 0 {
		return errors.New("align cache size cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}
