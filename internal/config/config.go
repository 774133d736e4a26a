// Package config provides centralized configuration management for the
// parser. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

// Config holds all parser configuration.
// All settings can be configured via environment variables.
type Config struct {
	Parse   ParseConfig
	Logging LoggingConfig
}

// ParseConfig holds parse invocation settings.
type ParseConfig struct {
	// MaxFileSize is the maximum accepted input size in bytes (default: 256MB).
	// Larger files are refused before any decoding starts.
	MaxFileSize int64 `env:"PARSE_MAX_FILE_SIZE" default:"268435456"`

	// DatePivotYears controls 2-digit-year interpretation: parsed years more
	// than this many years in the future shift to the previous century
	// (default: 20).
	DatePivotYears int `env:"PARSE_DATE_PIVOT_YEARS" default:"20"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
