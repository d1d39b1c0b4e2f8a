// Package config loads and validates process configuration from
// environment variables. Only the CLI and MCP server read config; the
// library itself takes everything through options.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all process configuration.
type Config struct {
	// Store settings.
	DBPath           string // SQLite file backing the MCP memory store.
	DefaultNamespace string

	// Verification settings.
	DisclosureThreshold float64 // Trust gap that forces disclosure.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool // Use HTTP instead of HTTPS for OTEL exporters.
	ServiceName  string

	// Operational settings.
	LogLevel     string
	BatchWorkers int // Concurrent verifications in CLI batch mode.
}

// Load reads configuration from environment variables with sensible
// defaults. Missing variables use defaults; only malformed values are
// rejected.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		DBPath:           envStr("GROUNDCHECK_DB_PATH", "groundcheck.db"),
		DefaultNamespace: envStr("GROUNDCHECK_NAMESPACE", "default"),
		OTELEndpoint:     envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:      envStr("OTEL_SERVICE_NAME", "groundcheck"),
		LogLevel:         envStr("GROUNDCHECK_LOG_LEVEL", "info"),
	}

	cfg.DisclosureThreshold, errs = collectFloat(errs, "GROUNDCHECK_DISCLOSURE_THRESHOLD", 0.30)
	cfg.BatchWorkers, errs = collectInt(errs, "GROUNDCHECK_BATCH_WORKERS", 4)
	cfg.OTELInsecure, errs = collectBool(errs, "OTEL_EXPORTER_OTLP_INSECURE", false)

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return Config{}, fmt.Errorf("config: invalid environment variables:\n  %s", strings.Join(msgs, "\n  "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would misbehave at runtime.
func (c Config) Validate() error {
	if c.DisclosureThreshold < 0 || c.DisclosureThreshold > 1 {
		return fmt.Errorf("config: GROUNDCHECK_DISCLOSURE_THRESHOLD must be in [0,1], got %v", c.DisclosureThreshold)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("config: GROUNDCHECK_BATCH_WORKERS must be >= 1, got %d", c.BatchWorkers)
	}
	if c.DefaultNamespace == "" {
		return fmt.Errorf("config: GROUNDCHECK_NAMESPACE must not be empty")
	}
	return nil
}

// collectInt parses an int env var, appending any error to the accumulator.
func collectInt(errs []error, key string, fallback int) (int, []error) {
	v, err := envInt(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectBool parses a bool env var, appending any error to the accumulator.
func collectBool(errs []error, key string, fallback bool) (bool, []error) {
	v, err := envBool(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectFloat parses a float env var, appending any error to the accumulator.
func collectFloat(errs []error, key string, fallback float64) (float64, []error) {
	v, err := envFloat(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not a number", key, v)
	}
	return f, nil
}
