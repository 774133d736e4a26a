package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Parse.MaxFileSize != 268435456 {
		t.Errorf("Parse.MaxFileSize = %d, want %d", cfg.Parse.MaxFileSize, 268435456)
	}
	if cfg.Parse.DatePivotYears != 20 {
		t.Errorf("Parse.DatePivotYears = %d, want %d", cfg.Parse.DatePivotYears, 20)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("PARSE_MAX_FILE_SIZE", "1048576")
	os.Setenv("PARSE_DATE_PIVOT_YEARS", "5")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("PARSE_MAX_FILE_SIZE")
		os.Unsetenv("PARSE_DATE_PIVOT_YEARS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Parse.MaxFileSize != 1048576 {
		t.Errorf("Parse.MaxFileSize = %d, want %d", cfg.Parse.MaxFileSize, 1048576)
	}
	if cfg.Parse.DatePivotYears != 5 {
		t.Errorf("Parse.DatePivotYears = %d, want %d", cfg.Parse.DatePivotYears, 5)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	os.Setenv("PARSE_MAX_FILE_SIZE", "not-a-number")
	defer os.Unsetenv("PARSE_MAX_FILE_SIZE")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for non-numeric size")
	}
}

func TestValidate_NonPositiveFileSize(t *testing.T) {
	cfg := &Config{
		Parse:   ParseConfig{MaxFileSize: 0, DatePivotYears: 20},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for zero file size")
	}
	if !strings.Contains(err.Error(), "PARSE_MAX_FILE_SIZE") {
		t.Errorf("error should mention PARSE_MAX_FILE_SIZE: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Parse:   ParseConfig{MaxFileSize: 1, DatePivotYears: 20},
		Logging: LoggingConfig{Level: "verbose", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := &Config{
		Parse:   ParseConfig{MaxFileSize: 1, DatePivotYears: 20},
		Logging: LoggingConfig{Level: "info", Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log format")
	}
	if !strings.Contains(err.Error(), "LOG_FORMAT") {
		t.Errorf("error should mention LOG_FORMAT: %v", err)
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Parse:   ParseConfig{MaxFileSize: 1024, DatePivotYears: 20},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	str := cfg.String()
	if !strings.Contains(str, "1024") || !strings.Contains(str, "info") {
		t.Errorf("String() = %q, want it to include key settings", str)
	}
}
