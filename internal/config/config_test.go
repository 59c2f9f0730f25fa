package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var keys = []string{"PORT", "DB_PATH", "RECEIPTS_DIR", "STORE", "SESSION_SECRET", "SESSION_TTL", "MAX_UPLOAD_BYTES", "LOG_LEVEL", "SEED_FIXTURES"}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "billed.db", cfg.DBPath)
	assert.Equal(t, "data/receipts", cfg.ReceiptsDir)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, insecureSecret, cfg.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.SeedFixtures)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORE", "Memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SEED_FIXTURES", "true")
	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.SeedFixtures)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("STORE", "postgres")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("SEED_FIXTURES", "maybe")
	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.SeedFixtures)
}
