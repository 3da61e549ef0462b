// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the connection behind the selected musician store
//     (PostgreSQL pool, Redis, MongoDB or SQLite)
//   - background job worker server (asynq)
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/database"
	"github.com/deppfellow/musician-api/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	loggerPkg "github.com/deppfellow/musician-api/internal/logger"
)

// Server is the application container that holds shared resources.
//
// Only the connections the configuration asks for are opened; the rest
// stay nil.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is set when store.driver is postgres.
	DB *database.Database

	// Redis is set whenever redis.address is configured.
	Redis *redis.Client

	// Mongo is set when store.driver is mongo.
	Mongo *mongo.Client

	// SQLite is set when store.driver is sqlite.
	SQLite *sql.DB

	// Job is set when background jobs are enabled.
	Job *job.JobService

	httpServer *http.Server

	// shutdownHooks run after the HTTP server stops and before connections close.
	shutdownHooks []func(ctx context.Context) error
}

// RedisPingTimeout bounds the startup Redis ping.
const RedisPingTimeout = 5 * time.Second

// New constructs a Server and opens the dependencies cfg selects.
//
// A Redis outage is fatal only when Redis backs the store; otherwise it
// is logged and startup continues. Anything opened before a failure is
// closed again.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	if err := s.open(ctx); err != nil {
		if closeErr := s.closeResources(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to release resources after startup error")
		}
		return nil, err
	}

	return s, nil
}

func (s *Server) open(ctx context.Context) error {
	cfg := s.Config

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(cfg, s.Logger, s.LoggerService)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db

	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize mongo: %w", err)
		}
		s.Mongo = client

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite: %w", err)
		}
		s.SQLite = db
	}

	if cfg.Redis.Address != "" {
		s.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if s.LoggerService.GetApplication() != nil {
			s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
		}

		pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
		err := s.Redis.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			if cfg.Store.Driver == config.DriverRedis {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			s.Logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
		}
	}

	if cfg.JobsEnabled() {
		jobService := job.NewJobService(s.Logger, cfg)
		if err := jobService.Start(); err != nil {
			return fmt.Errorf("failed to start job server: %w", err)
		}
		s.Job = jobService
	}

	return nil
}

// SetupHTTPServer configures the internal net/http server around handler.
// Config timeouts are whole seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
// http.ErrServerClosed after Shutdown is not an error.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Driver).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// OnShutdown registers fn to run during Shutdown, once no request is in
// flight and while every connection is still open.
func (s *Server) OnShutdown(fn func(ctx context.Context) error) {
	s.shutdownHooks = append(s.shutdownHooks, fn)
}

// Shutdown stops the HTTP server (waiting for in-flight requests until ctx
// ends), runs the shutdown hooks, then stops the job server and closes
// every open connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	for _, hook := range s.shutdownHooks {
		if err := hook(ctx); err != nil {
			s.Logger.Warn().Err(err).Msg("shutdown hook did not finish")
		}
	}

	return s.closeResources()
}

func (s *Server) closeResources() error {
	var errs []error

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), database.DatabasePingTimeout)
		defer cancel()
		if err := s.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect mongo: %w", err))
		}
	}

	if s.SQLite != nil {
		if err := s.SQLite.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sqlite database: %w", err))
		}
	}

	return errors.Join(errs...)
}
