package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Analytics AnalyticsConfig
	Storage   StorageConfig
	Watermark WatermarkConfig
	Export    ExportConfig
}

// DatabaseConfig is optional: without DB_HOST the service runs with the HTTP
// analytics source and no export history.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AnalyticsConfig selects where attendance datasets come from.
type AnalyticsConfig struct {
	Source  string
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	BasePath string
}

type WatermarkConfig struct {
	Path string
	Text string
}

type ExportConfig struct {
	ArchiveEnabled bool
	HistoryLimit   int
	Author         string
	// Retention is how long export history and archived reports are kept.
	// Zero keeps them forever.
	Retention time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
		slog.Info("No .env file found, using environment only")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "svce_events"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Analytics source
	timeout, err := time.ParseDuration(getEnv("ANALYTICS_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_TIMEOUT: %w", err)
	}
	config.Analytics = AnalyticsConfig{
		Source:  strings.ToLower(getEnv("ANALYTICS_SOURCE", SourceHTTP)),
		BaseURL: strings.TrimRight(getEnv("ANALYTICS_BASE_URL", ""), "/"),
		Timeout: timeout,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
	}

	config.Watermark = WatermarkConfig{
		Path: getEnv("WATERMARK_PATH", "college-watermark.png"),
		Text: getEnv("WATERMARK_TEXT", ""),
	}

	archive, err := strconv.ParseBool(getEnv("EXPORT_ARCHIVE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_ARCHIVE_ENABLED: %w", err)
	}
	historyLimit, err := strconv.Atoi(getEnv("EXPORT_HISTORY_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_HISTORY_LIMIT: %w", err)
	}
	retention, err := time.ParseDuration(getEnv("EXPORT_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_RETENTION: %w", err)
	}
	config.Export = ExportConfig{
		ArchiveEnabled: archive,
		HistoryLimit:   historyLimit,
		Author:         getEnv("EXPORT_AUTHOR", "SVCE Events"),
		Retention:      retention,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Analytics.Source {
	case SourceHTTP:
		if c.Analytics.BaseURL == "" {
			return fmt.Errorf("ANALYTICS_BASE_URL is required when ANALYTICS_SOURCE=http")
		}
	case SourcePostgres:
		if !c.HasDatabase() {
			return fmt.Errorf("DB_HOST is required when ANALYTICS_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unsupported ANALYTICS_SOURCE: %q", c.Analytics.Source)
	}

	if c.HasDatabase() && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Export.HistoryLimit <= 0 {
		return fmt.Errorf("EXPORT_HISTORY_LIMIT must be positive")
	}
	if c.Export.Retention < 0 {
		return fmt.Errorf("EXPORT_RETENTION must not be negative")
	}
	return nil
}

// HasDatabase reports whether Postgres is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
