// Package config provides configuration management for the application.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem is gathered before failing, so a
// misconfigured deployment reports all of its mistakes at once.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds credential-related configuration.
type AuthConfig struct {
	// JWTSecret is the process-wide secret used to sign credentials.
	JWTSecret string
	// TokenDuration is the credential lifetime. Defaults to 31 days.
	TokenDuration time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

// getRequiredEnv fetches a required environment variable, collecting an error
// when it is not set.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv fetches an environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt fetches an environment variable parsed as an int. The
// default is used when unset; a parse failure is collected as an error.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration fetches an environment variable parsed as a
// time.Duration ("15m", "744h", ...).
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig creates an AppConfig from environment variables. It returns a
// single aggregated error when anything is missing or malformed.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)
	if poolSize < 1 {
		errs = append(errs, fmt.Sprintf("DB_POOL_SIZE must be positive, got %d", poolSize))
		poolSize = 10
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	// Credentials live for 31 days unless configured otherwise.
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", 31*24*time.Hour, &errs)

	serverPort := getOptionalEnv("PORT", "3000")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB: &PoolConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxSize:  poolSize,
		},
		Auth: &AuthConfig{
			JWTSecret:     jwtSecret,
			TokenDuration: tokenDuration,
		},
		Server: &ServerConfig{Port: serverPort},
	}, nil
}
