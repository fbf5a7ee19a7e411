package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
// The task-manager process reads Server and Storage; the storage daemon
// reads Storaged.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Storaged StoragedConfig `mapstructure:"storaged"`
}

// ServerConfig contains the task-manager's server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig points the persistence bridge at the storage collaborator.
// Timeout bounds every call to it.
type StorageConfig struct {
	URL     string        `mapstructure:"url"     validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// StoragedConfig contains the storage daemon's settings. DatabaseURL is
// only required when running the daemon, so it carries no validate tag;
// the daemon checks it at startup.
type StoragedConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	DatabaseURL string `mapstructure:"database_url"`
}
