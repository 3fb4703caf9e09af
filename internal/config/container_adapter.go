package config

import (
	"github.com/Harshit2783/tally-integrated-pos-system/internal/container"
	"github.com/Harshit2783/tally-integrated-pos-system/pkg/utils"
)

// ToContainerConfig converts the file-based configuration into the
// container's configuration structure
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Ledger: container.LedgerConfig{
			Endpoint:       c.Ledger.Endpoint,
			DefaultCompany: c.Ledger.DefaultCompany,
			Timeout:        c.Ledger.Timeout,
			MaxAttempts:    c.Ledger.MaxAttempts,
			RetryBackoff:   c.Ledger.RetryBackoff,
			RatePerSecond:  c.Ledger.RatePerSecond,
			Burst:          c.Ledger.Burst,
		},
		Storage: container.StorageConfig{
			ExportDir: c.Export.Dir,
			CacheTTL:  c.Cache.TTL,
		},
		Server: container.ServerConfig{
			Host:            c.Server.Host,
			Port:            c.Server.Port,
			ReadTimeout:     c.Server.ReadTimeout,
			WriteTimeout:    c.Server.WriteTimeout,
			ShutdownTimeout: c.Server.ShutdownTimeout,
		},
		Worker: container.WorkerConfig{
			SyncInterval: c.Sync.Interval,
			SyncTimeout:  c.Sync.Timeout,
			RunOnStart:   c.Sync.RunOnStart,
		},
	}
}

// ToLoggerConfig converts the logger section for utils.NewLogger
func (c *Config) ToLoggerConfig() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
