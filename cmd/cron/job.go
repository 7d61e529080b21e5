package main

import (
	"context"
	"time"

	"idea-billing-service/internal/service/renewal"

	"go.uber.org/zap"
)

type renewalRunner interface {
	Run(ctx context.Context) (*renewal.Report, error)
}

// jobRunner adapts the renewal service to a cron.FuncJob with a per-run deadline.
type jobRunner struct {
	service renewalRunner
	timeout time.Duration
	logger  *zap.Logger
}

func newJobRunner(service renewalRunner, timeout time.Duration, logger *zap.Logger) *jobRunner {
	return &jobRunner{service: service, timeout: timeout, logger: logger}
}

func (j *jobRunner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	report, err := j.service.Run(ctx)
	if err != nil {
		j.logger.Error("scheduled renewal run failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}

	j.logger.Info("scheduled renewal run completed",
		zap.String("run_id", report.RunID),
		zap.Int("processed", report.Processed),
		zap.Int("expired", report.Expired),
		zap.Int("failed", report.Count(renewal.ResultFailed)),
		zap.Int("error", report.Count(renewal.ResultErrored)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
