// Package config loads the momai client configuration: remote API location,
// cache backend, and logging behavior. Values come from the YAML config
// file, with MOMAI_* environment variables taking precedence.
package config

import "time"

// Config is the root configuration for the momai client.
type Config struct {
	API     APIConfig     `yaml:"api,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// APIConfig locates the remote backend.
type APIConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty" env:"MOMAI_API_BASE_URL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" env:"MOMAI_API_TIMEOUT_SECONDS"`
	// Token optionally pins a static identity marker; may reference an
	// environment variable as ${VAR}. Normally identity comes from login.
	Token string `yaml:"token,omitempty" env:"MOMAI_API_TOKEN"`
}

// Timeout returns the per-request bound as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CacheConfig selects the local persistence backend.
type CacheConfig struct {
	Store string `yaml:"store,omitempty" env:"MOMAI_CACHE_STORE"` // "memory" | "sqlite" | "badger"
	Path  string `yaml:"path,omitempty" env:"MOMAI_CACHE_PATH"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty" env:"MOMAI_LOG_LEVEL"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty" env:"MOMAI_LOG_STYLE"` // "pretty" | "json"
}

// Defaults returns a usable zero-config setup.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "https://api.momai.app",
			TimeoutSeconds: 60,
		},
		Cache: CacheConfig{
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
			Style: "pretty",
		},
	}
}

// applyDefaults fills fields the file left empty.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if cfg.Cache.Store == "" {
		cfg.Cache.Store = def.Cache.Store
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = def.Logging.Style
	}
}
