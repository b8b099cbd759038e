package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfig mirrors the deployment environment. Field names match the
// environment variable keys.
type EnvConfig struct {
	APP_PORT string

	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	TEMPLATE_PATH      string
	LAYOUT_CONFIG_PATH string
	REPORTS_DIR        string

	REDIS_ADDR     string
	REDIS_PASSWORD string

	LOG_FILE_PATH string
}

// DefaultEnvConfig is populated once by LoadEnvConfig.
var DefaultEnvConfig EnvConfig

// LoadEnvConfig reads .env when present, then the process environment, into
// DefaultEnvConfig. Missing optional keys keep their zero values; required
// keys are validated here so startup fails fast.
func LoadEnvConfig() error {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := EnvConfig{
		APP_PORT:           envOr("APP_PORT", "8080"),
		DB_HOST:            envOr("DB_HOST", "localhost"),
		DB_PORT:            envOr("DB_PORT", "5432"),
		DB_USER:            os.Getenv("DB_USER"),
		DB_PASSWORD:        os.Getenv("DB_PASSWORD"),
		DB_NAME:            os.Getenv("DB_NAME"),
		DB_SSL_MODE:        envOr("DB_SSL_MODE", "disable"),
		TEMPLATE_PATH:      envOr("TEMPLATE_PATH", "templates/billing_template.xlsx"),
		LAYOUT_CONFIG_PATH: os.Getenv("LAYOUT_CONFIG_PATH"),
		REPORTS_DIR:        envOr("REPORTS_DIR", "reports"),
		REDIS_ADDR:         os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:     os.Getenv("REDIS_PASSWORD"),
		LOG_FILE_PATH:      os.Getenv("LOG_FILE_PATH"),
	}

	var err error
	if cfg.DB_MAX_OPEN_CONNS, err = envIntOr("DB_MAX_OPEN_CONNS", 25); err != nil {
		return err
	}
	if cfg.DB_MAX_IDLE_CONNS, err = envIntOr("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	lifetimeMin, err := envIntOr("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	if err != nil {
		return err
	}
	cfg.DB_CONN_MAX_LIFETIME = time.Duration(lifetimeMin) * time.Minute

	if cfg.DB_USER == "" || cfg.DB_NAME == "" {
		return fmt.Errorf("config: DB_USER and DB_NAME must be set")
	}

	DefaultEnvConfig = cfg
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}
