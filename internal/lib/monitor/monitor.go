// Package monitor runs the server's dependency health checks on a schedule
// (robfig/cron) and reports failures to the log and New Relic.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/musician-api/internal/server"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Operation tags New Relic events recorded by the monitor.
const Operation = "periodic_health_check"

// Monitor periodically runs a set of health checks.
type Monitor struct {
	cron    *cron.Cron
	checks  func() []server.HealthCheck
	timeout time.Duration
	logger  *zerolog.Logger
	record  func(operation string, result server.HealthResult)
}

// New builds a Monitor for the checks of s, using the interval and timeout
// from observability.health_checks.
func New(s *server.Server) (*Monitor, error) {
	hc := s.Config.Observability.HealthChecks
	return newMonitor(s.Logger, hc.Interval, hc.Timeout, s.HealthChecks, s.RecordHealthCheckError)
}

func newMonitor(
	logger *zerolog.Logger,
	interval, timeout time.Duration,
	checks func() []server.HealthCheck,
	record func(string, server.HealthResult),
) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("health check interval must be positive, got %s", interval)
	}

	l := logger.With().Str("component", "health_monitor").Logger()
	cronLogger := cronLogger{logger: &l}

	m := &Monitor{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		checks:  checks,
		timeout: timeout,
		logger:  &l,
		record:  record,
	}

	if _, err := m.cron.AddFunc("@every "+interval.String(), func() {
		m.RunOnce(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule health checks: %w", err)
	}

	return m, nil
}

// Start begins the schedule in its own goroutine.
func (m *Monitor) Start() {
	m.logger.Info().Msg("starting health monitor")
	m.cron.Start()
}

// Stop halts the schedule and waits for a running round, bounded by ctx.
func (m *Monitor) Stop(ctx context.Context) {
	select {
	case <-m.cron.Stop().Done():
	case <-ctx.Done():
		m.logger.Warn().Msg("health monitor stopped before the running round finished")
	}
}

// RunOnce runs every check now and logs the outcome.
func (m *Monitor) RunOnce(ctx context.Context) []server.HealthResult {
	results := server.RunHealthChecks(ctx, m.checks(), m.timeout)

	for _, result := range results {
		if result.Healthy() {
			m.logger.Debug().
				Str("check", result.Name).
				Dur("response_time", result.Duration).
				Msg("health check passed")
			continue
		}

		event := m.logger.Warn()
		if result.Required {
			event = m.logger.Error()
		}
		event.
			Err(result.Err).
			Str("check", result.Name).
			Bool("required", result.Required).
			Dur("response_time", result.Duration).
			Msg("health check failed")

		if m.record != nil {
			m.record(Operation, result)
		}
	}

	return results
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
