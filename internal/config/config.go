// Package config loads the server settings from .env and the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const insecureSecret = "billed-dev-secret-change-me-at-least-32-bytes"

type Config struct {
	Port           string
	DBPath         string
	ReceiptsDir    string
	Store          string // "sqlite" or "memory"
	SessionSecret  string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	LogLevel       string
	SeedFixtures   bool
}

// Load reads .env when present, then the environment. Unparsable values
// fall back to their default with a warning.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "billed.db"),
		ReceiptsDir:    getEnv("RECEIPTS_DIR", "data/receipts"),
		Store:          strings.ToLower(getEnv("STORE", "sqlite")),
		SessionSecret:  getEnv("SESSION_SECRET", insecureSecret),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", 10<<20),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SeedFixtures:   getBool("SEED_FIXTURES", false),
	}
	if cfg.SessionSecret == insecureSecret {
		slog.Warn("using default insecure SESSION_SECRET; set it for production")
	}
	if cfg.Store != "sqlite" && cfg.Store != "memory" {
		slog.Warn("unknown STORE, using sqlite", "value", cfg.Store)
		cfg.Store = "sqlite"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", s, "default", fallback)
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", s, "default", fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", s, "default", fallback)
		return fallback
	}
	return b
}
