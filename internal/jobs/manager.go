// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iliyamo/learning-platform/internal/config"
)

// Reconciler settles pending card payments with the gateway.
type Reconciler interface {
	ReconcilePending(ctx context.Context, lookback time.Duration, limit int) (int, error)
}

// Manager manages the scheduled jobs.
type Manager struct {
	cron *cron.Cron
	rec  Reconciler
	cfg  config.ReconcileConfig
	log  zerolog.Logger
}

// NewManager creates a manager.  Overlapping runs of the same job are
// skipped rather than queued.
func NewManager(rec Reconciler, cfg config.ReconcileConfig, log zerolog.Logger) *Manager {
	log = log.With().Str("component", "jobs").Logger()
	cl := cronLogger{log: log}
	return &Manager{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		rec:  rec,
		cfg:  cfg,
		log:  log,
	}
}

// Start registers the jobs and starts the scheduler.  Jobs receive ctx,
// so cancelling it aborts a run in progress.
func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		m.log.Info().Msg("payment reconciliation disabled")
		return nil
	}
	if _, err := m.cron.AddFunc(m.cfg.Schedule, func() { m.ReconcilePayments(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", m.cfg.Schedule, err)
	}
	m.cron.Start()
	m.log.Info().Str("schedule", m.cfg.Schedule).Msg("cron jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	m.log.Info().Msg("cron jobs stopped")
}

// ReconcilePayments runs one reconciliation sweep.
func (m *Manager) ReconcilePayments(ctx context.Context) {
	start := time.Now()
	n, err := m.rec.ReconcilePending(ctx, m.cfg.Lookback, m.cfg.Batch)
	ev := m.log.Info()
	if err != nil {
		ev = m.log.Warn().Err(err)
	}
	ev.Str("job", "reconcile_payments").
		Int("confirmed", n).
		Dur("took", time.Since(start)).
		Msg("job finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
