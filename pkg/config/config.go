// Package config loads engine configuration from environment variables.
package config

import "os"

// Config holds the settings the certcore CLI and embedding hosts read.
type Config struct {
	LogLevel         string
	SchemaDir        string
	OTLPEndpoint     string
	TelemetryEnabled bool
}

// Load loads configuration from environment variables, with defaults that
// work for a local operator workstation.
func Load() *Config {
	logLevel := os.Getenv("CERTCORE_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	schemaDir := os.Getenv("CERTCORE_SCHEMA_DIR")
	if schemaDir == "" {
		schemaDir = "schemas"
	}

	otlpEndpoint := os.Getenv("CERTCORE_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	return &Config{
		LogLevel:         logLevel,
		SchemaDir:        schemaDir,
		OTLPEndpoint:     otlpEndpoint,
		TelemetryEnabled: os.Getenv("CERTCORE_TELEMETRY") == "true",
	}
}
