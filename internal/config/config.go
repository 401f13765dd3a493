// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable.
type Config struct {
	Env                   string        // application environment (e.g. "dev", "prod")
	Port                  string        // HTTP port to listen on
	DBUser                string        // database username
	DBPass                string        // database password (optional)
	DBHost                string        // database host address
	DBPort                string        // database port number
	DBName                string        // database name
	ReservationTimeoutMin int           // minutes an unpaid reservation stays payable
	SweepInterval         time.Duration // how often the expiry sweep runs
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:                   must("APP_ENV"),
		Port:                  must("APP_PORT"),
		DBUser:                must("DB_USER"),
		DBPass:                os.Getenv("DB_PASS"), // empty allowed
		DBHost:                must("DB_HOST"),
		DBPort:                must("DB_PORT"),
		DBName:                must("DB_NAME"),
		ReservationTimeoutMin: mustInt("RESERVATION_TIMEOUT_MIN"),
		SweepInterval:         envDur("EXPIRATION_SWEEP_INTERVAL", time.Minute),
	}
	if cfg.ReservationTimeoutMin < 1 {
		log.Fatalf("RESERVATION_TIMEOUT_MIN must be at least 1, got %d", cfg.ReservationTimeoutMin)
	}
	if cfg.SweepInterval <= 0 {
		log.Fatalf("EXPIRATION_SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	return cfg
}

// ReservationTimeout returns the payment window as a duration.
func (c Config) ReservationTimeout() time.Duration {
	return time.Duration(c.ReservationTimeoutMin) * time.Minute
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error
// and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
