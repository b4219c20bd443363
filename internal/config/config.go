// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) builds a Config with defaults; Load(ctx) layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Default values.
const (
	DefaultAddr              = ":9080"
	DefaultDeltaEThreshold   = 15.0
	DefaultContrastThreshold = 2.5
	DefaultMaxBodyBytes      = 1 << 20
	DefaultEvalCacheSize     = 4096
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DeltaEThreshold is the baseline deltaE used when a request omits one.
	DeltaEThreshold float64 `koanf:"delta_e_threshold"`

	// ContrastThreshold is the baseline contrast used when a request omits one.
	ContrastThreshold float64 `koanf:"contrast_threshold"`

	// CORSAllowOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`

	// MaxBodyBytes caps the accepted request body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// EvalCacheSize bounds the shared evaluation cache; 0 or less is unbounded.
	EvalCacheSize int `koanf:"eval_cache_size"`

	// EvalCacheTTL switches the evaluation cache to time-based expiry when
	// positive. EvalCacheSize is ignored in that mode.
	EvalCacheTTL time.Duration `koanf:"eval_cache_ttl"`
}

// New creates a Config populated with defaults. The context is reserved for
// future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              DefaultAddr,
		DeltaEThreshold:   DefaultDeltaEThreshold,
		ContrastThreshold: DefaultContrastThreshold,
		CORSAllowOrigin:   "*",
		MaxBodyBytes:      DefaultMaxBodyBytes,
		EvalCacheSize:     DefaultEvalCacheSize,
	}
}
