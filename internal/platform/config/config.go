// Package config provides configuration loading and validation for the
// provisioner. Configuration is loaded from YAML files with environment
// variable overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the provisioner.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Setup     SetupConfig     `koanf:"setup"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds settings for the HTTP client of the backing system that
// representations persist into.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds HTTP retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound rate limiting settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// SetupConfig holds settings for setup passes.
type SetupConfig struct {
	// Scope tags the objects of a CLI run ("module" or "function").
	Scope string `koanf:"scope"`

	// SpecFile is the default specification file for the run command.
	SpecFile string `koanf:"spec_file"`

	// Preflight runs the health registry before a pass and aborts on failure.
	Preflight bool `koanf:"preflight"`

	// Retry is the generic transient-error policy around object creation.
	Retry SetupRetryConfig `koanf:"retry"`

	// PersistenceRetryDelay is the wait before the single extra Create
	// attempt after a transient persistence failure.
	PersistenceRetryDelay time.Duration `koanf:"persistence_retry_delay"`
}

// SetupRetryConfig holds the flat-with-jitter retry policy.
type SetupRetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	BaseDelay   time.Duration `koanf:"base_delay"`
	Jitter      time.Duration `koanf:"jitter"`
}
