package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"datahealth/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port                string
	GinMode             string
	CORSOrigins         []string
	UploadRatePerMinute int
	AnalysisTimeout     time.Duration
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
	File  string
}

// Load reads the server configuration from environment variables and validates it
func Load() (*Config, error) {
	config := LoadForCLI()

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	authConfig, err := loadAuthConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load auth configuration")
	}
	config.Auth = *authConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadForCLI reads the settings that need no database or secrets
func LoadForCLI() *Config {
	return &Config{
		Server:  *loadServerConfig(),
		Storage: *loadStorageConfig(),
		Log:     *loadLogConfig(),
	}
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:             url,
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}, nil
}

func loadAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.ConfigInvalid("JWT_SECRET is required")
	}

	return &AuthConfig{
		JWTSecret:       secret,
		TokenExpiration: time.Duration(getEnvIntOrDefault("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:                getEnvOrDefault("PORT", "8000"),
		GinMode:             getEnvOrDefault("GIN_MODE", "debug"),
		CORSOrigins:         getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		UploadRatePerMinute: getEnvIntOrDefault("UPLOAD_RATE_PER_MINUTE", 30),
		AnalysisTimeout:     getEnvDurationOrDefault("ANALYSIS_TIMEOUT", 2*time.Minute),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "info"),
		File:  getEnvOrDefault("LOG_FILE", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if len(config.Auth.JWTSecret) < 16 {
		return errors.ConfigInvalid("JWT_SECRET must be at least 16 characters")
	}
	if config.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Server.UploadRatePerMinute <= 0 {
		return errors.ConfigInvalid("UPLOAD_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
