package config

import (
	"fmt"
	"time"

	"github.com/mjaros/listkeeper/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	HTTP            HTTPConfig
	Storage         StorageConfig
	Observability   ObservabilityConfig
	Legacy          LegacyConfig
	ShutdownTimeout time.Duration `env:"LISTKEEPER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"LISTKEEPER_HTTP_HOST"`
	Port              string        `env:"LISTKEEPER_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"LISTKEEPER_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `env:"LISTKEEPER_HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `env:"LISTKEEPER_HTTP_IDLE_TIMEOUT" default:"60s"`
	ReadHeaderTimeout time.Duration `env:"LISTKEEPER_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	MaxBodyBytes      int64         `env:"LISTKEEPER_HTTP_MAX_BODY_BYTES" default:"1048576"`
}

// StorageConfig selects and configures the document store backend.
type StorageConfig struct {
	// Type is one of: memory, fs, postgres, gcs.
	Type string `env:"LISTKEEPER_STORAGE_TYPE" default:"fs"`

	FSDir        string        `env:"LISTKEEPER_FS_DIR" default:"./listkeeper-data"`
	PostgresDSN  string        `env:"LISTKEEPER_POSTGRES_DSN"`
	GCSBucket    string        `env:"LISTKEEPER_GCS_BUCKET"`
	PollInterval time.Duration `env:"LISTKEEPER_STORAGE_POLL_INTERVAL" default:"250ms"`
}

// Validate checks that the selected backend has what it needs.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case "memory":
		return nil
	case "fs":
		if c.FSDir == "" {
			return fmt.Errorf("LISTKEEPER_FS_DIR is required when LISTKEEPER_STORAGE_TYPE is 'fs'")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("LISTKEEPER_POSTGRES_DSN is required when LISTKEEPER_STORAGE_TYPE is 'postgres'")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("LISTKEEPER_GCS_BUCKET is required when LISTKEEPER_STORAGE_TYPE is 'gcs'")
		}
	default:
		return fmt.Errorf("unknown LISTKEEPER_STORAGE_TYPE: %s", c.Type)
	}
	return nil
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"LISTKEEPER_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"listkeeper"`
}

// LegacyConfig configures the one-shot import of a local legacy database.
type LegacyConfig struct {
	// SQLitePath points at the legacy database file. Empty disables import.
	SQLitePath string `env:"LISTKEEPER_LEGACY_SQLITE_PATH"`
	// Owner receives the imported documents.
	Owner string `env:"LISTKEEPER_LEGACY_OWNER"`
}

// Validate rejects a half-configured import.
func (c *LegacyConfig) Validate() error {
	if c.SQLitePath != "" && c.Owner == "" {
		return fmt.Errorf("LISTKEEPER_LEGACY_OWNER is required when LISTKEEPER_LEGACY_SQLITE_PATH is set")
	}
	return nil
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
