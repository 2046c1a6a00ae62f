/*
Package config loads server settings from the environment.

PURPOSE:
  One Config struct built from environment variables, optionally seeded
  from a .env file in the working directory. Command-line flags in
  cmd/server override the loaded values.

KEYS (default):
  PORT                     8080
  DB_DRIVER                sqlite3 | postgres
  DATABASE_URL             backoffice.db
  DB_MAX_OPEN_CONNS        10
  DB_MIN_IDLE_CONNS        2
  DB_IDLE_TIMEOUT          30s
  REQUEST_TIMEOUT          5s
  JWT_SECRET               (required)
  CORS_ORIGINS             http://localhost:5173,http://localhost:8080
  LOG_LEVEL                info
  LOG_FORMAT               text | json
  PAYROLL_RATE_RESOLUTION  latest | as_of_period_end

SEE ALSO:
  - cmd/server/serve.go: Flag overrides and startup
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/backoffice/payroll"
	"github.com/warp/backoffice/store/sqlite"
)

type Config struct {
	Port string

	DBDriver     string
	DatabaseURL  string
	MaxOpenConns int
	MinIdleConns int
	IdleTimeout  time.Duration

	RequestTimeout time.Duration
	JWTSecret      string
	CORSOrigins    []string

	LogLevel  string
	LogFormat string

	RateResolution string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	maxOpen, err := strconv.Atoi(get("DB_MAX_OPEN_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	minIdle, err := strconv.Atoi(get("DB_MIN_IDLE_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("DB_MIN_IDLE_CONNS: %w", err)
	}
	idle, err := time.ParseDuration(get("DB_IDLE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("DB_IDLE_TIMEOUT: %w", err)
	}
	reqTimeout, err := time.ParseDuration(get("REQUEST_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	return &Config{
		Port:           get("PORT", "8080"),
		DBDriver:       get("DB_DRIVER", sqlite.DriverSQLite),
		DatabaseURL:    get("DATABASE_URL", "backoffice.db"),
		MaxOpenConns:   maxOpen,
		MinIdleConns:   minIdle,
		IdleTimeout:    idle,
		RequestTimeout: reqTimeout,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CORSOrigins:    splitList(get("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		RateResolution: get("PAYROLL_RATE_RESOLUTION", string(payroll.RateLatest)),
	}, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.DBDriver != sqlite.DriverSQLite && c.DBDriver != sqlite.DriverPostgres {
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if _, err := payroll.ParseRateResolution(c.RateResolution); err != nil {
		errs = append(errs, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// StoreOptions maps the database settings onto the store.
func (c *Config) StoreOptions() sqlite.Options {
	return sqlite.Options{
		Driver:       c.DBDriver,
		DSN:          c.DatabaseURL,
		MaxOpenConns: c.MaxOpenConns,
		MinIdleConns: c.MinIdleConns,
		IdleTimeout:  c.IdleTimeout,
	}
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
