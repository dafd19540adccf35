package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// StorageRoot is the directory backing the object store. When empty,
	// an in-memory store is used instead of the local filesystem.
	StorageRoot string
	// TracingEnabled turns on span export for publish/read operations.
	TracingEnabled bool
	// ZipkinURL is the span collector endpoint used when tracing is enabled.
	ZipkinURL string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	tracingEnabled, _ := strconv.ParseBool(os.Getenv("TRACING_ENABLED"))

	cfg := &Config{
		StorageRoot:    os.Getenv("TOPICSTORE_ROOT"),
		TracingEnabled: tracingEnabled,
		ZipkinURL:      os.Getenv("ZIPKIN_URL"),
	}

	if cfg.ZipkinURL == "" {
		cfg.ZipkinURL = "http://localhost:9411/api/v2/spans"
	}

	return cfg
}
