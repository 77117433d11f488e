package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "tickerd"
	defaultServicePort  = 8095
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "tickerd"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"
	defaultRedisURL     = "redis://localhost:6379"
	defaultTimezone     = "UTC"

	defaultPrefetchInterval = 5 * time.Minute
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Ticker   TickerConfig   `yaml:"ticker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"TICKERD_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_TICKERD_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_TICKERD_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_TICKERD_USER"     yaml:"user"`
	Password string `env:"POSTGRES_TICKERD_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_TICKERD_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_TICKERD_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedisConfig holds the Redis connection used for render statistics.
type RedisConfig struct {
	URL string `env:"REDIS_URL" yaml:"url"`
}

// TickerConfig holds feed rendering configuration.
type TickerConfig struct {
	// DefaultTimezone applies to channels whose config carries no timezone.
	DefaultTimezone string `env:"TICKER_DEFAULT_TIMEZONE" yaml:"default_timezone"`
	// ImageCachePath, when set, rewrites image URLs in rendered fields to
	// local paths under this prefix.
	ImageCachePath string `env:"TICKER_IMAGE_CACHE_PATH" yaml:"image_cache_path"`
	// PrefetchChannels lists channels whose images the background worker
	// downloads into ImageCachePath. Empty disables prefetching.
	PrefetchChannels []string      `yaml:"prefetch_channels"`
	PrefetchInterval time.Duration `env:"TICKER_PREFETCH_INTERVAL" yaml:"prefetch_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setTickerDefaults(&cfg.Ticker)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
}

func setTickerDefaults(t *TickerConfig) {
	if t.DefaultTimezone == "" {
		t.DefaultTimezone = defaultTimezone
	}
	if t.PrefetchInterval == 0 {
		t.PrefetchInterval = defaultPrefetchInterval
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := validatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if c.Database.Database == "" {
		return &ValidationError{Field: "database.database", Message: "is required"}
	}
	return nil
}
