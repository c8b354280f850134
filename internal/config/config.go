package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "TextScan"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultBlobDir        = "data/blobs"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultAccessTTL      = 12 * time.Hour
	defaultScanTimeout    = 60 * time.Second
	defaultMatchThreshold = 0.6
	defaultCompareWorkers = 8
	defaultDailyCredits   = 20
	defaultResetHourUTC   = 0
	defaultScanRateLimit  = 10
	defaultAdminEmail     = "admin@textscan.local"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	BlobDir        string
	JWTSecret      string
	AdminEmail     string
	AdminPassword  string
	AccessTokenTTL time.Duration
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	ScanTimeout    time.Duration
	MatchThreshold float64
	CompareWorkers int
	DailyCredits   int
	ResetHourUTC   int
	ScanRateLimit  int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		BlobDir:        getEnv("BLOB_DIR", defaultBlobDir),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminEmail:     getEnv("ADMIN_EMAIL", defaultAdminEmail),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AccessTokenTTL: defaultAccessTTL,
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		ScanTimeout:    defaultScanTimeout,
		MatchThreshold: defaultMatchThreshold,
		CompareWorkers: defaultCompareWorkers,
		DailyCredits:   defaultDailyCredits,
		ResetHourUTC:   defaultResetHourUTC,
		ScanRateLimit:  defaultScanRateLimit,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ScanTimeout, err = durationEnv("SCAN_TIMEOUT", cfg.ScanTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CompareWorkers, err = intEnv("COMPARE_WORKERS", cfg.CompareWorkers); err != nil {
		return Config{}, err
	}
	if cfg.DailyCredits, err = intEnv("DAILY_CREDITS", cfg.DailyCredits); err != nil {
		return Config{}, err
	}
	if cfg.ResetHourUTC, err = intEnv("RESET_HOUR_UTC", cfg.ResetHourUTC); err != nil {
		return Config{}, err
	}
	if cfg.ScanRateLimit, err = intEnv("SCAN_RATE_LIMIT", cfg.ScanRateLimit); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MATCH_THRESHOLD: %w", err)
		}
		if threshold < 0 || threshold >= 1 {
			return Config{}, fmt.Errorf("MATCH_THRESHOLD must be in [0, 1)")
		}
		cfg.MatchThreshold = threshold
	}

	if cfg.ResetHourUTC < 0 || cfg.ResetHourUTC > 23 {
		return Config{}, fmt.Errorf("RESET_HOUR_UTC must be between 0 and 23")
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET must be set")
		}
		cfg.JWTSecret = "dev-only-secret"
	}
	if cfg.AdminPassword == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("ADMIN_PASSWORD must be set")
		}
		cfg.AdminPassword = "dev-admin-password"
	}

	// Dev mode runs on in-memory backends when Postgres/Redis are absent;
	// everywhere else they are mandatory.
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set")
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set")
		}
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
