package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/service"
)

// ReminderWorker periodically drives the reminder scheduler. The scheduler
// itself is idempotent, so overlapping or restarted workers cannot produce
// duplicate reminders.
type ReminderWorker struct {
	reminders *service.ReminderService
	interval  time.Duration
	logger    *zap.Logger
}

// NewReminderWorker constructs the worker.
func NewReminderWorker(reminders *service.ReminderService, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ReminderWorker{reminders: reminders, interval: interval, logger: logger}
}

// Run ticks until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			sent, err := w.reminders.SendDueReminders(ctx, time.Now())
			if err != nil {
				w.logger.Warn("reminder pass failed", zap.Error(err))
				continue
			}
			if sent > 0 {
				w.logger.Info("reminders sent", zap.Int("count", sent))
			}
		}
	}
}
