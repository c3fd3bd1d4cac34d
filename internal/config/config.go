// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Company CompanyConfig
	Logging LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// APIConfig contains the remote storefront API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig contains durable token storage configuration.
// Backend selects where the bearer token survives restarts: a local
// file (default) or a Redis key for server-side deployments.
type SessionConfig struct {
	Backend   string
	TokenFile string
	RedisKey  string
	Redis     RedisConfig
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CompanyConfig contains the merchant details printed on invoices
type CompanyConfig struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Client"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080/api"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Backend:   getEnv("SESSION_BACKEND", "file"),
			TokenFile: getEnv("SESSION_TOKEN_FILE", ".storefront/token"),
			RedisKey:  getEnv("SESSION_REDIS_KEY", "storefront:session:token"),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     getEnv("REDIS_PORT", "6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
		},
		Company: CompanyConfig{
			Name:    getEnv("COMPANY_NAME", "Storefront"),
			Address: getEnv("COMPANY_ADDRESS", ""),
			Phone:   getEnv("COMPANY_PHONE", ""),
			Email:   getEnv("COMPANY_EMAIL", ""),
			Website: getEnv("COMPANY_WEBSITE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	switch c.Session.Backend {
	case "file":
		if c.Session.TokenFile == "" {
			return fmt.Errorf("SESSION_TOKEN_FILE is required for the file session backend")
		}
	case "redis":
		if c.Session.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis session backend")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be 'file' or 'redis', got '%s'", c.Session.Backend)
	}

	return nil
}

// GetRedisAddr returns the Redis address for the session backend
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Session.Redis.Host, c.Session.Redis.Port)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets environment variable as boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration gets environment variable as duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
