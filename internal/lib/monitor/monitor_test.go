package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/musician-api/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []server.HealthResult
}

func (r *recorder) record(operation string, result server.HealthResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, result)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestNewMonitor_RejectsZeroInterval(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	_, err := newMonitor(&logger, 0, time.Second, nil, nil)
	assert.Error(t, err)
}

func TestRunOnce_RecordsOnlyFailures(t *testing.T) {
	t.Parallel()

	down := errors.New("connection refused")
	checks := func() []server.HealthCheck {
		return []server.HealthCheck{
			{Name: "database", Required: true, Check: func(context.Context) error { return down }},
			{Name: "redis", Check: func(context.Context) error { return nil }},
		}
	}

	logger := zerolog.Nop()
	rec := &recorder{}
	m, err := newMonitor(&logger, time.Minute, time.Second, checks, rec.record)
	require.NoError(t, err)

	results := m.RunOnce(context.Background())
	require.Len(t, results, 2)
	assert.False(t, results[0].Healthy())
	assert.True(t, results[1].Healthy())

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "database", rec.events[0].Name)
	assert.ErrorIs(t, rec.events[0].Err, down)
}

func TestMonitor_RunsOnSchedule(t *testing.T) {
	t.Parallel()

	checks := func() []server.HealthCheck {
		return []server.HealthCheck{
			{Name: "sqlite", Check: func(context.Context) error { return errors.New("locked") }},
		}
	}

	logger := zerolog.Nop()
	rec := &recorder{}
	m, err := newMonitor(&logger, time.Second, 100*time.Millisecond, checks, rec.record)
	require.NoError(t, err)

	m.Start()
	assert.Eventually(t, func() bool { return rec.count() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
}
