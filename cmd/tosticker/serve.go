package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/api"
	"github.com/zstar1003/Tosticker/internal/audit"
	"github.com/zstar1003/Tosticker/internal/config"
	"github.com/zstar1003/Tosticker/internal/events"
	"github.com/zstar1003/Tosticker/internal/logging"
	"github.com/zstar1003/Tosticker/internal/metrics"
	"github.com/zstar1003/Tosticker/internal/reminder"
	"github.com/zstar1003/Tosticker/internal/store"
)

var (
	listenAddr string
	dbPath     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tosticker backend",
	Long:  `Starts the backend: the command API, the reminder loop and the event stream that delivers todo-reminder events.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides config)")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromHome()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logger.WithField("db", cfg.Store.Path).Info("Starting Tosticker backend...")

	s, err := store.New(cfg.Store.Path, store.WithMaxConns(cfg.Store.MaxConns))
	if err != nil {
		return err
	}

	m := metrics.New()
	hub := events.NewHub(logger, m)

	service := api.NewService(s, audit.NewRecorder(logger))
	server := api.NewServer(service, cfg.Server.Listen)
	server.SetLogger(logger)
	server.SetMetrics(m)
	server.SetEvents(hub)
	server.SetVersion(version)

	loop := reminder.New(s, hub,
		reminder.WithInterval(cfg.Reminder.Interval),
		reminder.WithLogger(logger),
		reminder.WithMetrics(m),
	)
	if err := loop.Start(); err != nil {
		s.Close()
		return err
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		err := server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Received signal, initiating graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Error("Server error")
			loop.Stop()
			hub.Close()
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Stopping reminder loop...")
	if err := loop.Stop(); err != nil {
		logger.WithError(err).Warn("Reminder loop shutdown error")
	}

	logger.Info("Shutting down HTTP server...")
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown error")
	}

	logger.Info("Closing database connection...")
	if err := s.Close(); err != nil {
		logger.WithError(err).Warn("Database close error")
	}

	logger.Info("Shutdown complete")
	return nil
}
