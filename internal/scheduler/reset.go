package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/textscan/textscan/internal/credits"
)

// ResetJob restores every regular user's balance to a fixed value once per
// day at a fixed UTC hour. Admin balances are never touched.
type ResetJob struct {
	ledger  credits.Ledger
	logger  *slog.Logger
	credits int
	hourUTC int
}

// NewResetJob builds the daily reset job.
func NewResetJob(ledger credits.Ledger, logger *slog.Logger, creditValue, hourUTC int) *ResetJob {
	return &ResetJob{ledger: ledger, logger: logger, credits: creditValue, hourUTC: hourUTC}
}

// Run blocks until the context is canceled, firing the reset at each daily
// boundary. Intended to run in its own goroutine.
func (j *ResetJob) Run(ctx context.Context) {
	for {
		wait := time.Until(nextRun(time.Now().UTC(), j.hourUTC))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reset pass.
func (j *ResetJob) RunOnce(ctx context.Context) {
	affected, err := j.ledger.ResetAll(ctx, j.credits, credits.RoleUser)
	if err != nil {
		j.logger.Error("daily credit reset failed", "error", err)
		return
	}
	j.logger.Info("daily credit reset", "users", affected, "credits", j.credits)
}

// nextRun returns the next instant at hourUTC:00:00 strictly after now.
func nextRun(now time.Time, hourUTC int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
