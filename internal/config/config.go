// Package config loads the runtime configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabasePath is the sqlite file backing the gateway.
	DatabasePath string

	// SessionUser is the identifier of the authenticated user. The app
	// runs single-user; an empty value means no active session and every
	// store operation becomes a no-op.
	SessionUser string

	// StoreTimeout bounds every gateway call issued by a store.
	StoreTimeout time.Duration
}

// Load reads the configuration, merging a .env file if one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "data/mybudget.db"),
		SessionUser:  getEnv("SESSION_USER", ""),
		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return parsed
}
