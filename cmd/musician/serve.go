package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/musician-api/internal/handler"
	"github.com/deppfellow/musician-api/internal/lib/monitor"
	"github.com/deppfellow/musician-api/internal/repository"
	"github.com/deppfellow/musician-api/internal/router"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/deppfellow/musician-api/internal/service"
	"github.com/spf13/cobra"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 30 * time.Second

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with the configured store driver.

SIGINT or SIGTERM stops accepting requests, waits for in-flight requests
and closes every connection.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.PersistentFlags().DurationVar(&shutdownTimeout, "shutdown-timeout", DefaultShutdownTimeout,
		"How long to wait for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, loggerService, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer loggerService.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize repositories")
		return errors.Join(err, srv.Shutdown(context.Background()))
	}

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize services")
		return errors.Join(err, srv.Shutdown(context.Background()))
	}

	srv.OnShutdown(services.Musicians.Wait)

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	var healthMonitor *monitor.Monitor
	if cfg.Observability.HealthChecks.Enabled {
		healthMonitor, err = monitor.New(srv)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize health monitor")
			return errors.Join(err, srv.Shutdown(context.Background()))
		}
		healthMonitor.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err = <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if healthMonitor != nil {
		healthMonitor.Stop(shutdownCtx)
	}

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("server forced to shutdown")
		return errors.Join(err, shutdownErr)
	}

	log.Info().Msg("server exited properly")
	return err
}
