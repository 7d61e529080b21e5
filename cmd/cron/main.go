package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"idea-billing-service/internal/app"
	"idea-billing-service/internal/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CRON] No .env file found, relying on system env vars")
	}
	cfg := config.Load()

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := app.BuildDependencies(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to build dependencies", zap.Error(err))
	}
	defer deps.Close()

	runner := newJobRunner(deps.RenewalService, cfg.CronRunTimeout, logger)

	cronLogger := newCronLogger(logger)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, runner.run); err != nil {
		logger.Fatal("invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
	}

	c.Start()
	logger.Info("renewal scheduler started", zap.String("schedule", cfg.CronSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("stopping scheduler, waiting for running job", zap.String("signal", sig.String()))
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}
