// internal/app/dependencies.go
package app

import (
	"context"
	"fmt"

	"idea-billing-service/internal/config"
	"idea-billing-service/internal/db"
	"idea-billing-service/internal/integration/tosspayments"
	xerrors "idea-billing-service/internal/pkg/errors"
	"idea-billing-service/internal/pkg/lock"
	"idea-billing-service/internal/pkg/ratelimit"
	"idea-billing-service/internal/repository/postgres"
	paymentUsecase "idea-billing-service/internal/service/payment"
	renewalUsecase "idea-billing-service/internal/service/renewal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies is the object graph shared by the API server and the scheduler.
type Dependencies struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	RateLimiter *ratelimit.RateLimiter

	RenewalService *renewalUsecase.Service
	PaymentService *paymentUsecase.PaymentService
}

// NewLogger builds the process logger for the configured environment.
func NewLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// BuildDependencies connects storage and assembles the services.
func BuildDependencies(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Dependencies, error) {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("connected to PostgreSQL")

	// ----- Redis (optional) -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		pool.Close()
		return nil, xerrors.Wrap(err, "failed to set up Redis")
	}

	var locker renewalUsecase.Locker = lock.NoopLocker{}
	var limiter *ratelimit.RateLimiter
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, cfg.RenewalLockTTL, logger)
		limiter = ratelimit.NewRateLimiter(redisClient)
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, renewal locking and trigger rate limiting are disabled")
	}

	// ----- Billing timezone -----
	loc, ok := cfg.Location()
	if !ok {
		logger.Warn("unknown BILLING_TIMEZONE, falling back to UTC", zap.String("timezone", cfg.BillingTimezone))
	}

	if cfg.TossSecretKey == "" {
		logger.Warn("TOSS_SECRET_KEY not set, gateway charges will be rejected")
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	paymentRepo := postgres.NewSubscriptionPaymentRepository(pool)
	ledger := postgres.NewRenewalLedger(dbWrapper, subscriptionRepo, paymentRepo)

	// ----- Gateway -----
	gateway := tosspayments.NewClient(cfg.TossAPIBaseURL, cfg.TossSecretKey, cfg.GatewayTimeout, logger)

	// ----- Services (Usecases) -----
	return &Dependencies{
		Pool:           pool,
		RedisClient:    redisClient,
		RateLimiter:    limiter,
		RenewalService: renewalUsecase.NewService(ledger, gateway, locker, loc, logger),
		PaymentService: paymentUsecase.NewPaymentService(paymentRepo, logger),
	}, nil
}

// Close releases the storage connections.
func (d *Dependencies) Close() {
	if d.RedisClient != nil {
		_ = d.RedisClient.Close()
	}
	d.Pool.Close()
}
