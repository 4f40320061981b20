package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/config"
)

type fakeReconciler struct {
	lookback time.Duration
	limit    int
	n        int
	err      error
}

func (f *fakeReconciler) ReconcilePending(_ context.Context, lookback time.Duration, limit int) (int, error) {
	f.lookback, f.limit = lookback, limit
	return f.n, f.err
}

func TestReconcilePaymentsPassesConfig(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeReconciler{n: 3}
	m := NewManager(rec, config.ReconcileConfig{Lookback: time.Hour, Batch: 50}, zerolog.New(&buf))

	m.ReconcilePayments(context.Background())
	assert.Equal(t, time.Hour, rec.lookback)
	assert.Equal(t, 50, rec.limit)
	assert.Contains(t, buf.String(), `"confirmed":3`)

	buf.Reset()
	rec.err = errors.New("gateway down")
	m.ReconcilePayments(context.Background())
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewManager(&fakeReconciler{}, config.ReconcileConfig{Enabled: true, Schedule: "every tuesday"}, zerolog.Nop())
	assert.Error(t, m.Start(context.Background()))
}

func TestStartStop(t *testing.T) {
	m := NewManager(&fakeReconciler{}, config.ReconcileConfig{Enabled: true, Schedule: "@every 1h"}, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))
	assert.Len(t, m.cron.Entries(), 1)
	m.Stop()
}

func TestDisabledRegistersNothing(t *testing.T) {
	m := NewManager(&fakeReconciler{}, config.ReconcileConfig{Enabled: false, Schedule: "@every 1h"}, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))
	assert.Empty(t, m.cron.Entries())
}
