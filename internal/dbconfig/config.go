package dbconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Postgres connection and pool settings. The pool fields map
// onto pgxpool's pool_* URL options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewConfigFromEnv reads DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Database: getEnv("DB_NAME", "courtday"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxConns:        getEnvAsInt("DB_POOL_MAX_CONNS", 10),
		MinConns:        getEnvAsInt("DB_POOL_MIN_CONNS", 2),
		MaxConnLifetime: getEnvAsDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		MaxConnIdleTime: getEnvAsDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
	}
}

// DSN returns the pgxpool connection URL, pool options included.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d&pool_max_conn_lifetime=%s&pool_max_conn_idle_time=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
		c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
