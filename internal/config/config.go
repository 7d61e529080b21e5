package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"idea-billing-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppEnv   string

	// Storage
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	RedisDB     int

	// Trigger guard
	CronSecret        string
	TriggerRateLimit  int64
	TriggerRateWindow time.Duration

	// Payment gateway
	TossSecretKey  string
	TossAPIBaseURL string
	GatewayTimeout time.Duration

	// Renewal job
	BillingTimezone string
	RenewalLockTTL  time.Duration
	CronSchedule    string
	CronRunTimeout  time.Duration

	// Admin API
	JWT jwt.Config
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		AppEnv:   strings.ToLower(getEnv("APP_ENV", "production")),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASS", ""),
		RedisDB:     getEnvInt("REDIS_DB", 0),

		CronSecret:        getEnv("CRON_SECRET", ""),
		TriggerRateLimit:  int64(getEnvInt("TRIGGER_RATE_LIMIT", 10)),
		TriggerRateWindow: getEnvDuration("TRIGGER_RATE_WINDOW", time.Minute),

		TossSecretKey:  getEnv("TOSS_SECRET_KEY", ""),
		TossAPIBaseURL: strings.TrimRight(getEnv("TOSS_API_BASE_URL", "https://api.tosspayments.com"), "/"),
		GatewayTimeout: getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second),

		BillingTimezone: getEnv("BILLING_TIMEZONE", "UTC"),
		RenewalLockTTL:  getEnvDuration("RENEWAL_LOCK_TTL", 2*time.Minute),
		CronSchedule:    getEnv("CRON_SCHEDULE", "0 0 3 * * *"),
		CronRunTimeout:  getEnvDuration("CRON_RUN_TIMEOUT", 10*time.Minute),

		JWT: jwt.Config{
			Secret:    getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
			AdminRole: getEnv("JWT_ADMIN_ROLE", "service_role"),
		},
	}
}

// IsDevelopment reports whether the service runs with development logging.
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Location resolves BillingTimezone. Unknown names fall back to UTC and ok is false.
func (c AppConfig) Location() (loc *time.Location, ok bool) {
	loc, err := time.LoadLocation(c.BillingTimezone)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
