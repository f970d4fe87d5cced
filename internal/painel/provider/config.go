package provider

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Common errors
var (
	ErrMissingURLAPI = errors.New("URL_API environment variable is required")
)

// Defaults for the refresh pipeline.
const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultFetchTimeout    = 10 * time.Second
	DefaultConfigFile      = "painel.yaml"
	DefaultRateLimitRPS    = 5.0
	DefaultRateLimitBurst  = 10
)

// Config holds configuration for the dashboard backend.
type Config struct {
	// URLAPI is the upstream CAD export endpoint.
	URLAPI string

	// Port the HTTP server listens on.
	Port string

	// RefreshInterval between background snapshot refreshes.
	RefreshInterval time.Duration

	// FetchTimeout bounds a single upstream request.
	FetchTimeout time.Duration

	// AllowedOrigins for the CORS allow-list.
	AllowedOrigins []string

	// RateLimitRPS and RateLimitBurst shape the per-client token bucket.
	RateLimitRPS   float64
	RateLimitBurst int
}

// fileConfig is the optional painel.yaml file. Environment variables take
// precedence over every field here.
type fileConfig struct {
	RefreshSeconds      int      `yaml:"refresh_seconds"`
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	RateLimitRPS        float64  `yaml:"rate_limit_rps"`
	RateLimitBurst      int      `yaml:"rate_limit_burst"`
}

// LoadFromEnv loads configuration from the environment, layered over an
// optional painel.yaml in the working directory.
//
// Environment variables:
//   - URL_API: upstream CAD export endpoint (required)
//   - PORT: HTTP listen port (default "8080")
//   - REFRESH_INTERVAL: Go duration, e.g. "60s" (default 60s)
//   - FETCH_TIMEOUT: Go duration, e.g. "10s" (default 10s)
//   - RATE_LIMIT_RPS: requests per second per client (default 5)
//   - RATE_LIMIT_BURST: burst size per client (default 10)
func LoadFromEnv() Config {
	return loadFrom(DefaultConfigFile)
}

func loadFrom(configFile string) Config {
	cfg := Config{
		URLAPI:          strings.TrimSpace(os.Getenv("URL_API")),
		Port:            strings.TrimSpace(os.Getenv("PORT")),
		RefreshInterval: DefaultRefreshInterval,
		FetchTimeout:    DefaultFetchTimeout,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
	}

	if file, err := readFileConfig(configFile); err == nil {
		if file.RefreshSeconds > 0 {
			cfg.RefreshInterval = time.Duration(file.RefreshSeconds) * time.Second
		}
		if file.FetchTimeoutSeconds > 0 {
			cfg.FetchTimeout = time.Duration(file.FetchTimeoutSeconds) * time.Second
		}
		if file.RateLimitRPS > 0 {
			cfg.RateLimitRPS = file.RateLimitRPS
		}
		if file.RateLimitBurst > 0 {
			cfg.RateLimitBurst = file.RateLimitBurst
		}
		cfg.AllowedOrigins = file.AllowedOrigins
	} else if !os.IsNotExist(err) {
		LogError("config", "read "+configFile, err)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RefreshInterval = d
		} else {
			LogError("config", "parse REFRESH_INTERVAL", fmt.Errorf("invalid duration %q", v))
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FetchTimeout = d
		} else {
			LogError("config", "parse FETCH_TIMEOUT", fmt.Errorf("invalid duration %q", v))
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.RateLimitRPS = n
		} else {
			LogError("config", "parse RATE_LIMIT_RPS", fmt.Errorf("invalid number %q", v))
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		} else {
			LogError("config", "parse RATE_LIMIT_BURST", fmt.Errorf("invalid number %q", v))
		}
	}

	return cfg
}

func readFileConfig(path string) (fileConfig, error) {
	var file fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return file, err
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

// Validate checks that the configuration can drive the pipeline.
func (c Config) Validate() error {
	if c.URLAPI == "" {
		return ErrMissingURLAPI
	}
	return nil
}
