// Package container wires the stock sync service's components together and
// owns their lifecycle.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Storage  StorageConfig
	Server   ServerConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file, or ":memory:"
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LedgerConfig holds the ledger system's endpoint settings.
type LedgerConfig struct {
	Endpoint string

	// DefaultCompany is used when a request names no company
	DefaultCompany string

	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration

	// RatePerSecond caps outgoing requests; zero disables the limit
	RatePerSecond float64
	Burst         int
}

// StorageConfig holds cache and export settings.
type StorageConfig struct {
	// ExportDir receives a workbook per completed sync; empty disables it
	ExportDir string

	CacheTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	// SyncInterval schedules a sync of the default company; zero disables it
	SyncInterval time.Duration
	SyncTimeout  time.Duration
	RunOnStart   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/stock.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Ledger: LedgerConfig{
			Endpoint:      "http://localhost:9000",
			Timeout:       30 * time.Second,
			MaxAttempts:   2,
			RetryBackoff:  500 * time.Millisecond,
			RatePerSecond: 2,
			Burst:         2,
		},
		Storage: StorageConfig{
			CacheTTL: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Worker: WorkerConfig{
			SyncTimeout: 2 * time.Minute,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Ledger.Endpoint == "" {
		return fmt.Errorf("ledger.endpoint is required")
	}
	if c.Worker.SyncInterval > 0 && c.Ledger.DefaultCompany == "" {
		return fmt.Errorf("ledger.default_company is required for scheduled sync")
	}
	return nil
}
