package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Port             int
	DatabaseURL      string
	RedisAddr        string
	JWTSecret        string
	AdminSecretHash  string
	DataDir          string
	IconsDir         string
	ScanPollInterval time.Duration
	RateLimitPerSec  float64
}

func Load() *Config {
	return &Config{
		Port:             envInt("PORT", 8080),
		DatabaseURL:      env("DATABASE_URL", "postgres://vaultindex:vaultindex@db:5432/vaultindex?sslmode=disable"),
		RedisAddr:        env("REDIS_ADDR", "redis:6379"),
		JWTSecret:        env("JWT_SECRET", "change-me-in-production"),
		AdminSecretHash:  env("ADMIN_SECRET_HASH", ""),
		DataDir:          env("DATA_DIR", "/data"),
		IconsDir:         env("ICONS_DIR", "/data/icons"),
		ScanPollInterval: envDuration("SCAN_POLL_INTERVAL", 30*time.Second),
		RateLimitPerSec:  envFloat("RATE_LIMIT_PER_SEC", 20),
	}
}

// MergeFromDB overlays values from the settings table, the same role the
// teacher uses a flat key/value table for. Settings values arrive as bare
// strings regardless of their logical type, so cast handles the permissive
// coercion of numeric strings (seconds, floats) instead of a hand-rolled
// parse-and-ignore-on-error per field.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "scan_poll_interval_seconds":
			if secs, err := cast.ToIntE(value); err == nil {
				c.ScanPollInterval = time.Duration(secs) * time.Second
			}
		case "rate_limit_per_sec":
			if v, err := cast.ToFloat64E(value); err == nil {
				c.RateLimitPerSec = v
			}
		case "admin_secret_hash":
			c.AdminSecretHash = value
		case "jwt_secret":
			c.JWTSecret = value
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
