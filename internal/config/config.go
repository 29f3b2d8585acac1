package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	HTTP_PORT string

	JWT_SECRET        string
	JWT_ISSUER        string
	ACCESS_TOKEN_TTL  time.Duration
	REFRESH_TOKEN_TTL time.Duration

	SEED_FILE string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		HTTP_PORT: GetEnvOrDefault("HTTP_PORT", "8080"),

		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		JWT_ISSUER:        GetEnvOrDefault("JWT_ISSUER", "tma"),
		ACCESS_TOKEN_TTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		REFRESH_TOKEN_TTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		SEED_FILE: os.Getenv("SEED_FILE"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a duration either as a Go duration string ("15m")
// or as a plain number of minutes.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if mins, err := strconv.Atoi(raw); err == nil {
		return time.Duration(mins) * time.Minute
	}

	return defaultValue
}
