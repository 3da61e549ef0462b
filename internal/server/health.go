package server

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/deppfellow/musician-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthCheck probes one dependency.
// A failing Required check makes the service unhealthy.
type HealthCheck struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// HealthResult is the outcome of one HealthCheck.
type HealthResult struct {
	Name     string
	Required bool
	Duration time.Duration
	Err      error
}

// Healthy reports whether the check passed.
func (r HealthResult) Healthy() bool {
	return r.Err == nil
}

// HealthChecks lists the checks for every open connection, filtered by
// observability.health_checks.checks when that list is set.
func (s *Server) HealthChecks() []HealthCheck {
	driver := s.Config.Store.Driver
	var checks []HealthCheck

	if s.DB != nil {
		checks = append(checks, HealthCheck{
			Name:     "database",
			Required: driver == config.DriverPostgres,
			Check:    s.DB.Pool.Ping,
		})
	}

	if s.Redis != nil {
		checks = append(checks, HealthCheck{
			Name:     "redis",
			Required: driver == config.DriverRedis,
			Check: func(ctx context.Context) error {
				return s.Redis.Ping(ctx).Err()
			},
		})
	}

	if s.Mongo != nil {
		checks = append(checks, HealthCheck{
			Name:     "mongo",
			Required: driver == config.DriverMongo,
			Check: func(ctx context.Context) error {
				return s.Mongo.Ping(ctx, readpref.Primary())
			},
		})
	}

	if s.SQLite != nil {
		checks = append(checks, HealthCheck{
			Name:     "sqlite",
			Required: driver == config.DriverSQLite,
			Check:    s.SQLite.PingContext,
		})
	}

	var only []string
	if s.Config.Observability != nil {
		only = s.Config.Observability.HealthChecks.Checks
	}
	if len(only) == 0 {
		return checks
	}

	return slices.DeleteFunc(checks, func(c HealthCheck) bool {
		return !slices.Contains(only, c.Name)
	})
}

// RunHealthChecks runs checks concurrently, each bounded by timeout, and
// returns the results in the order of checks.
func RunHealthChecks(ctx context.Context, checks []HealthCheck, timeout time.Duration) []HealthResult {
	results := make([]HealthResult, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			err := check.Check(checkCtx)
			results[i] = HealthResult{
				Name:     check.Name,
				Required: check.Required,
				Duration: time.Since(start),
				Err:      err,
			}
		}()
	}
	wg.Wait()

	return results
}

// RecordHealthCheckError sends a HealthCheckError event to New Relic when
// the agent is running.
func (s *Server) RecordHealthCheckError(operation string, result HealthResult) {
	app := s.LoggerService.GetApplication()
	if app == nil || result.Healthy() {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       result.Name,
		"operation":        operation,
		"error_type":       result.Name + "_unhealthy",
		"required":         result.Required,
		"response_time_ms": result.Duration.Milliseconds(),
		"error_message":    result.Err.Error(),
	})
}
