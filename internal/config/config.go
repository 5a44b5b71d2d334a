package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string
	AutoMigrate bool

	// JWT (tokens are issued by the identity provider, we only verify them)
	JWTSecret string

	// Background Workers
	WorkerCount         int
	ReconcileSchedule   string
	RecalcRetryDelay    time.Duration
	RecalcRetryAttempts int

	// Per-plan locking
	RedisURL    string
	PlanLockTTL time.Duration

	// Domain events
	RabbitMQURL      string
	RabbitMQExchange string

	// Recalculation policy
	SeedFromNetAmount  bool
	FloorReserveAtZero bool

	// CORS
	AllowedOrigins []string

	// Per-IP rate limiting
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("WORKER_COUNT", 5)
	v.SetDefault("RECONCILE_SCHEDULE", "0 3 * * *")
	v.SetDefault("RECALC_RETRY_DELAY", "30s")
	v.SetDefault("RECALC_RETRY_ATTEMPTS", 3)
	v.SetDefault("PLAN_LOCK_TTL", "30s")
	v.SetDefault("RABBITMQ_EXCHANGE", "antecipa.events")
	v.SetDefault("SEED_FROM_NET_AMOUNT", false)
	v.SetDefault("FLOOR_RESERVE_AT_ZERO", true)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	cfg := &Config{
		Port:                v.GetString("PORT"),
		Environment:         v.GetString("ENVIRONMENT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		AutoMigrate:         v.GetBool("AUTO_MIGRATE"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		WorkerCount:         v.GetInt("WORKER_COUNT"),
		ReconcileSchedule:   v.GetString("RECONCILE_SCHEDULE"),
		RecalcRetryDelay:    v.GetDuration("RECALC_RETRY_DELAY"),
		RecalcRetryAttempts: v.GetInt("RECALC_RETRY_ATTEMPTS"),
		RedisURL:            v.GetString("REDIS_URL"),
		PlanLockTTL:         v.GetDuration("PLAN_LOCK_TTL"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:    v.GetString("RABBITMQ_EXCHANGE"),
		SeedFromNetAmount:   v.GetBool("SEED_FROM_NET_AMOUNT"),
		FloorReserveAtZero:  v.GetBool("FLOOR_RESERVE_AT_ZERO"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
		RateLimitEnabled:    v.GetBool("RATE_LIMIT_ENABLED"),
		RateLimitRPS:        v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:      v.GetInt("RATE_LIMIT_BURST"),
		SentryDSN:           v.GetString("SENTRY_DSN"),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.PlanLockTTL <= 0 {
		cfg.PlanLockTTL = 30 * time.Second
	}

	return cfg, nil
}

// splitList reads a comma-separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
