package redline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.OllamaURL != "http://localhost:11434" {
		t.Errorf("OllamaURL = %q", cfg.OllamaURL)
	}
	if cfg.MatchTimeout != 30*time.Second {
		t.Errorf("MatchTimeout = %v", cfg.MatchTimeout)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ollama_url: http://ollama.internal:11434
model: qwen2:7b
match_timeout: 45s
accept_threshold: 6.5
align_cache_size: 32
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.OllamaURL != "http://ollama.internal:11434" {
		t.Errorf("OllamaURL = %q", cfg.OllamaURL)
	}
	if cfg.Model != "qwen2:7b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MatchTimeout != 45*time.Second {
		t.Errorf("MatchTimeout = %v", cfg.MatchTimeout)
	}
	if cfg.AcceptThreshold != 6.5 {
		t.Errorf("AcceptThreshold = %v", cfg.AcceptThreshold)
	}
	if cfg.AlignCacheSize != 32 {
		t.Errorf("AlignCacheSize = %d", cfg.AlignCacheSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model: llama3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Model != "llama3" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.OllamaURL != DefaultConfig().OllamaURL {
		t.Errorf("OllamaURL = %q, want default", cfg.OllamaURL)
	}
	if cfg.AcceptThreshold != DefaultConfig().AcceptThreshold {
		t.Errorf("AcceptThreshold = %v, want default", cfg.AcceptThreshold)
	}
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model: from-file\nmatch_timeout: 10s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REDLINE_MODEL", "from-env")
	t.Setenv("REDLINE_MATCH_TIMEOUT", "2m")
	t.Setenv("REDLINE_ACCEPT_THRESHOLD", "7")
	t.Setenv("REDLINE_ALIGN_CACHE_SIZE", "0")
	t.Setenv("REDLINE_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
	if cfg.MatchTimeout != 2*time.Minute {
		t.Errorf("MatchTimeout = %v, want env override", cfg.MatchTimeout)
	}
	if cfg.AcceptThreshold != 7 {
		t.Errorf("AcceptThreshold = %v", cfg.AcceptThreshold)
	}
	if cfg.AlignCacheSize != 0 {
		t.Errorf("AlignCacheSize = %d", cfg.AlignCacheSize)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		os.WriteFile(path, []byte("model: [unclosed"), 0o644)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "dur.yaml")
		os.WriteFile(path, []byte("match_timeout: soon\n"), 0o644)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "empty url", mutate: func(c *Config) { c.OllamaURL = "" }, wantErr: true},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.MatchTimeout = 0 }, wantErr: true},
		{name: "threshold too high", mutate: func(c *Config) { c.AcceptThreshold = 11 }, wantErr: true},
		{name: "negative threshold", mutate: func(c *Config) { c.AcceptThreshold = -1 }, wantErr: true},
		{name: "negative cache", mutate: func(c *Config) { c.AlignCacheSize = -1 }, wantErr: true},
		{name: "zero cache ok", mutate: func(c *Config) { c.AlignCacheSize = 0 }, wantErr: false},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
