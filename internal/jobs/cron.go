// Package jobs wires scheduled maintenance work. The only job today is
// the expired-draft sweep; it is idempotent, so overlapping runs from a
// restart or a user-triggered sweep are harmless.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"campforge/internal/core/port"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	cron   *cron.Cron
	drafts port.DraftUseCase
	logger *slog.Logger
}

// NewScheduler creates a scheduler around the draft usecase.
func NewScheduler(drafts port.DraftUseCase, logger *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), drafts: drafts, logger: logger}
}

// Start registers the draft sweep on the given cron schedule and starts
// the runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		res, err := s.drafts.CleanupExpired(ctx)
		if err != nil {
			s.logger.Error("draft cleanup failed", slog.Any("error", err))
			return
		}
		if res.Count > 0 {
			s.logger.Info("expired drafts removed", slog.Int("count", res.Count))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the runner; already-running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
