package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Env                 string
	DBPath              string
	PrefsPath           string
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string
	AllowGuest          bool
	LogLevel            string
	CORSOrigins         string
	ProfileSyncInterval time.Duration
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:                GetEnv("PORT", "3000"),
		Env:                 GetEnv("ENV", "development"),
		DBPath:              GetEnv("DB_PATH", "./data/fintrack.db"),
		PrefsPath:           GetEnv("PREFS_PATH", "./data/preferences.yaml"),
		GoogleClientID:      GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  GetEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:   GetEnv("GOOGLE_REDIRECT_URL", "postmessage"),
		AllowGuest:          GetEnvBool("ALLOW_GUEST", true),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		CORSOrigins:         GetEnv("CORS_ORIGINS", "*"),
		ProfileSyncInterval: GetEnvDuration("PROFILE_SYNC_INTERVAL", 6*time.Hour),
	}
}

// GoogleEnabled reports whether Google sign-in credentials are configured
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
