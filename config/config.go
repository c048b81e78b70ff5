package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads the ENVIRONMENT VARIABLES from .env when GO_ENV is unset or
// "development". A missing .env file is not an error.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string
	// Web frontend
	PORT                  int
	API_BASE_URL          string
	REQUEST_TIMEOUT       time.Duration
	COOKIE_SECURE         bool
	HEALTH_PROBE_SCHEDULE string
	RATE_LIMIT_REQUESTS   int
	// Token store, empty REDIS_URL selects the in-memory store
	REDIS_URL string
	TOKEN_TTL time.Duration
	// Reference backend
	DEVAPI_PORT     int
	ALLOWED_ORIGINS string
	DB_DRIVER       string // "postgres" or "sqlite"
	DB_USER_NAME    string
	DB_PASSWORD     string
	DB_NAME         string
	DB_HOST         string
	DB_PORT         string
	DB_SSL_MODE     string
	SQLITE_PATH     string
	JWT_SECRET      string
	JWT_ISSUER      string
	JWT_EXPIRY      time.Duration
	BCRYPT_COST     int
}

func Get() (*EnvironmentVariable, error) {
	envVariables := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),

		PORT:                  intOr("PORT", 3000),
		API_BASE_URL:          stringOr("API_BASE_URL", "http://localhost:8000/api"),
		REQUEST_TIMEOUT:       durationOr("REQUEST_TIMEOUT", 15*time.Second),
		COOKIE_SECURE:         boolOr("COOKIE_SECURE", false),
		HEALTH_PROBE_SCHEDULE: stringOr("HEALTH_PROBE_SCHEDULE", "@every 30s"),
		RATE_LIMIT_REQUESTS:   intOr("RATE_LIMIT_REQUESTS", 300),

		REDIS_URL: os.Getenv("REDIS_URL"),
		TOKEN_TTL: durationOr("TOKEN_TTL", 7*24*time.Hour),

		DEVAPI_PORT:     intOr("DEVAPI_PORT", 8000),
		ALLOWED_ORIGINS: stringOr("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DB_DRIVER:       stringOr("DB_DRIVER", "postgres"),
		DB_USER_NAME:    os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		DB_HOST:         stringOr("DB_HOST", "localhost"),
		DB_PORT:         stringOr("DB_PORT", "5432"),
		DB_SSL_MODE:     stringOr("DB_SSL_MODE", "disable"),
		SQLITE_PATH:     stringOr("SQLITE_PATH", "coursehub.db"),
		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		JWT_ISSUER:      stringOr("JWT_ISSUER", "course-hub"),
		JWT_EXPIRY:      durationOr("JWT_EXPIRY", 30*time.Minute),
		BCRYPT_COST:     intOr("BCRYPT_COST", 12),
	}

	if envVariables.DB_DRIVER != "postgres" && envVariables.DB_DRIVER != "sqlite" {
		return nil, errors.New("DB_DRIVER must be postgres or sqlite")
	}

	return envVariables, nil
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func boolOr(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
