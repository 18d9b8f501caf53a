package service

import (
	"context"
	"time"

	"github.com/vencia/vencia-backend/pkg/logger"
)

// AlertScheduler rebuilds the alert map periodically so the served
// alerts track calendar time even when no write-off happens.
type AlertScheduler struct {
	service  *AlertService
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewAlertScheduler creates a new alert scheduler
func NewAlertScheduler(service *AlertService, interval time.Duration, log *logger.Logger) *AlertScheduler {
	return &AlertScheduler{
		service:  service,
		interval: interval,
		logger:   log,
	}
}

// Start starts the scheduler in a background goroutine. It refreshes
// once immediately so the service does not serve an empty alert map,
// then ticks until Stop is called or the context is cancelled.
func (s *AlertScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("alert scheduler started")

		s.runRefresh(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("alert scheduler stopped")
				return
			case <-ticker.C:
				s.runRefresh(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *AlertScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AlertScheduler) runRefresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.service.RefreshAlerts(refreshCtx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled alert refresh failed")
		return
	}

	s.logger.Debug().Dur("duration", time.Since(start)).Msg("alert refresh cycle complete")
}
