// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Storage     StorageConfig
	AWS         AWSConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

// AuthConfig describes the single device user. The UserID is the principal
// every remote document path is namespaced under, so changing it orphans
// previously synced data.
type AuthConfig struct {
	UserID   string
	Username string
	Password string
}

type StorageConfig struct {
	// Path of the sqlite file holding the persisted application state.
	Path string
	// StateKey is the blob key the full serialized state lives under.
	StateKey string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	DynamoTable     string
}

// RateLimitConfig tunes the per-client token buckets. Disabling it is meant
// for tests and trusted single-client setups.
type RateLimitConfig struct {
	Enabled      bool
	RequestBurst int // burst for all routes, refilled once per second
	AuthBurst    int // burst for credential endpoints, refilled once per minute
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		Auth: AuthConfig{
			UserID:   getEnv("AUTH_USER_ID", "local-admin"),
			Username: getEnv("AUTH_USERNAME", "admin"),
			Password: getEnv("AUTH_PASSWORD", "admin"),
		},
		Storage: StorageConfig{
			Path:     getEnv("STORAGE_PATH", "./shoplite.db"),
			StateKey: getEnv("STORAGE_STATE_KEY", "invoicing-app-storage"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			DynamoTable:     getEnv("AWS_DYNAMO_TABLE", "shoplite-documents"),
		},
		RateLimit: RateLimitConfig{
			Enabled:      getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
			AuthBurst:    getEnvAsInt("RATE_LIMIT_AUTH_BURST", 5),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Auth.Password == "admin" && c.Environment == "production" {
		return fmt.Errorf("device password must be changed in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
