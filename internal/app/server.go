// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"idea-billing-service/internal/config"
	paymentHandler "idea-billing-service/internal/handlers/payment"
	renewalHandler "idea-billing-service/internal/handlers/renewal"
	"idea-billing-service/internal/middleware"
	"idea-billing-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const triggerRateLimitKey = "trigger:process-subscription-payments"

type Server struct {
	cfg        config.AppConfig
	engine     *gin.Engine
	logger     *zap.Logger
	deps       *Dependencies
	httpServer *http.Server
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires the dependencies and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	deps, err := BuildDependencies(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	s.deps = deps

	// ----- Handlers -----
	renewalHandlerInst := renewalHandler.NewRenewalHandler(deps.RenewalService, s.logger)
	paymentHandlerInst := paymentHandler.NewPaymentHandler(deps.PaymentService, deps.RenewalService)

	// ----- Middlewares -----
	if s.cfg.JWT.Secret == "" {
		s.logger.Warn("JWT_SECRET not set, admin endpoints will reject every request")
	}
	authMiddleware := middleware.NewAuthMiddleware(jwt.Build(s.cfg.JWT), s.logger)

	if s.cfg.CronSecret == "" {
		s.logger.Warn("CRON_SECRET not set, job trigger is unauthenticated")
	}
	var limiter middleware.Limiter
	if deps.RateLimiter != nil {
		limiter = deps.RateLimiter
	}
	triggerGuards := []gin.HandlerFunc{
		middleware.CronSecretMiddleware(s.cfg.CronSecret, s.logger),
		middleware.RateLimitMiddleware(limiter, triggerRateLimitKey, s.cfg.TriggerRateLimit, s.cfg.TriggerRateWindow, s.logger),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, s.logger, &Handlers{
		RenewalHandler: renewalHandlerInst,
		PaymentHandler: paymentHandlerInst,
		AuthMiddleware: authMiddleware,
		TriggerGuards:  triggerGuards,
		AdminRole:      s.cfg.JWT.AdminRole,
	})

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests, including a running renewal job,
// then closes the storage connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.deps != nil {
		s.deps.Close()
	}
	return err
}
