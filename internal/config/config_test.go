package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DASHBOARD_DEBOUNCE_MS", "150")
	t.Setenv("STORE_BACKEND", "postgres")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 150*time.Millisecond, cfg.Dashboard.Debounce())
	assert.Equal(t, "postgres", cfg.Store.Backend)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DASHBOARD_DEBOUNCE_MS", "DASHBOARD_RECENCY_DAYS", "DASHBOARD_RECENT_LIMIT",
		"DASHBOARD_NOTIFICATION_MS", "STORE_BACKEND", "MINIO_ENDPOINT", "TZ_LOCATION",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 300*time.Millisecond, cfg.Dashboard.Debounce())
	assert.Equal(t, 30, cfg.Dashboard.RecencyDays)
	assert.Equal(t, 3, cfg.Dashboard.RecentLimit)
	assert.Equal(t, 4*time.Second, cfg.Dashboard.NotificationTTL())
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.True(t, cfg.Store.LatencyEnabled)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLocation_Invalid(t *testing.T) {
	cfg := &AppConfig{TZLocation: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
