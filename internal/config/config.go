// Package config loads application settings from a yaml file, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/Harshit2783/tally-integrated-pos-system/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Export   ExportConfig   `mapstructure:"export"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LedgerConfig holds the ledger system's endpoint settings
type LedgerConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	DefaultCompany string        `mapstructure:"default_company"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
	Burst          int           `mapstructure:"burst"`
}

// SyncConfig holds scheduled synchronization settings
type SyncConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// ExportConfig holds spreadsheet archive settings
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// CacheConfig holds snapshot cache settings
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configPath, then .env, then the environment. Later sources win.
// An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.path", "data/stock.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("ledger.endpoint", "http://localhost:9000")
	v.SetDefault("ledger.timeout", 30*time.Second)
	v.SetDefault("ledger.max_attempts", 2)
	v.SetDefault("ledger.retry_backoff", 500*time.Millisecond)
	v.SetDefault("ledger.rate_per_second", 2.0)
	v.SetDefault("ledger.burst", 2)

	v.SetDefault("sync.interval", 0)
	v.SetDefault("sync.timeout", 2*time.Minute)
	v.SetDefault("sync.run_on_start", false)

	v.SetDefault("export.dir", "")
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the short names used in .env files
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("ledger.endpoint", "POS_LEDGER_ENDPOINT", "TALLY_URL")
	_ = v.BindEnv("ledger.default_company", "POS_LEDGER_DEFAULT_COMPANY", "TALLY_COMPANY")
	_ = v.BindEnv("database.path", "POS_DATABASE_PATH", "DATABASE_PATH")
	_ = v.BindEnv("server.port", "POS_SERVER_PORT", "PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := utils.ValidateEndpoint(c.Ledger.Endpoint); err != nil {
		return fmt.Errorf("ledger.endpoint: %w", err)
	}
	if c.Ledger.DefaultCompany != "" {
		if err := utils.ValidateCompanyName(c.Ledger.DefaultCompany); err != nil {
			return fmt.Errorf("ledger.default_company: %w", err)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("sync.interval must not be negative")
	}
	if c.Sync.Interval > 0 && c.Ledger.DefaultCompany == "" {
		return fmt.Errorf("ledger.default_company is required when sync.interval is set")
	}
	if c.Ledger.RatePerSecond < 0 {
		return fmt.Errorf("ledger.rate_per_second must not be negative")
	}
	return nil
}
