package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Storage is optional: with an empty endpoint, file locators are served as-is.
type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	PresignExpirySec int
}

// Enabled reports whether object storage is configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// NATSConfig holds the optional event publisher settings.
type NATSConfig struct {
	URL     string
	Subject string
}

// StoreConfig selects and tunes the document store backend.
type StoreConfig struct {
	// Backend is "memory" (default) or "postgres".
	Backend        string
	SeedFile       string
	LatencyEnabled bool
}

// DashboardConfig holds the view-state knobs: debounce, recency window and list limits.
type DashboardConfig struct {
	DebounceMs     int
	RecencyDays    int
	RecentLimit    int
	NotificationMs int
}

// Debounce returns the debounce window as a duration.
func (c DashboardConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// NotificationTTL returns how long the suggestion-applied notification stays visible.
func (c DashboardConfig) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationMs) * time.Millisecond
}

// RefreshConfig is the retry policy for the best-effort refresh after a document is viewed.
type RefreshConfig struct {
	MaxAttempts      int
	InitialBackoffMs int
	MaxBackoffMs     int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	LogLevel   string
	TZLocation string
	Store      StoreConfig
	Dashboard  DashboardConfig
	Refresh    RefreshConfig
	Database   DatabaseConfig
	MinIO      MinIOConfig
	NATS       NATSConfig
}

// Location resolves TZLocation, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.TZLocation); err == nil {
		return loc
	}
	return time.UTC
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"), // default only for non-sensitive value
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		TZLocation: getEnv("TZ_LOCATION", "UTC"),
		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", "memory"),
			SeedFile:       getEnv("SEED_FILE", ""),
			LatencyEnabled: getEnvBool("STORE_LATENCY_ENABLED", true),
		},
		Dashboard: DashboardConfig{
			DebounceMs:     getEnvInt("DASHBOARD_DEBOUNCE_MS", 300),
			RecencyDays:    getEnvInt("DASHBOARD_RECENCY_DAYS", 30),
			RecentLimit:    getEnvInt("DASHBOARD_RECENT_LIMIT", 3),
			NotificationMs: getEnvInt("DASHBOARD_NOTIFICATION_MS", 4000),
		},
		Refresh: RefreshConfig{
			MaxAttempts:      getEnvInt("REFRESH_RETRY_MAX_ATTEMPTS", 3),
			InitialBackoffMs: getEnvInt("REFRESH_RETRY_INITIAL_BACKOFF_MS", 200),
			MaxBackoffMs:     getEnvInt("REFRESH_RETRY_MAX_BACKOFF_MS", 1000),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", ""),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "docdash.document.viewed"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
