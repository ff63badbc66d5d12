// Package config provides configuration management for the Splitsight service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Chart     ChartConfig     `mapstructure:"chart" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ServerConfig represents the results API server configuration
type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort      int `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// IngestionConfig represents results ingestion configuration
type IngestionConfig struct {
	Sources  []SourceConfig `mapstructure:"sources" validate:"omitempty,dive"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// SourceConfig represents a single remote results source
type SourceConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	URL       string  `mapstructure:"url" validate:"required,url"`
	Enabled   bool    `mapstructure:"enabled"`
	APIKey    string  `mapstructure:"api_key"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents periodic refresh scheduling for live events
type ScheduleConfig struct {
	RefreshCron         string `mapstructure:"refresh_cron"`
	LivePollIntervalSec int    `mapstructure:"live_poll_interval_seconds" validate:"omitempty,gte=5"`
}

// ChartConfig represents chart computation defaults
type ChartConfig struct {
	DefaultType           string  `mapstructure:"default_type" validate:"required,charttype"`
	FastestTimePercentage float64 `mapstructure:"fastest_time_percentage" validate:"gte=0,lte=100"`
}

// CacheConfig represents the computed-results cache configuration
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxEntries int `mapstructure:"max_entries" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
