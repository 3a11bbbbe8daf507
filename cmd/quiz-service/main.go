package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timed-quiz/internal/config"
	"timed-quiz/internal/httpapi"
	"timed-quiz/internal/logging"
	"timed-quiz/internal/questionsource"
	"timed-quiz/internal/session"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("quiz-service exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	provider, closeProvider, err := questionsource.Open(cfg.Provider, cfg.Quiz.QuestionCount)
	if err != nil {
		return fmt.Errorf("open question source %q: %w", cfg.Provider.Source, err)
	}
	defer func() {
		if err := closeProvider(); err != nil {
			logger.Error("question source close error", "error", err)
		}
	}()

	controller := session.NewController(provider, session.Options{
		Duration:     cfg.Quiz.Duration,
		TickInterval: cfg.Quiz.TickInterval,
		FetchTimeout: cfg.Provider.OpenTDBTimeout,
		Logger:       logger,
	})
	defer controller.Close()

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	server := &http.Server{
		Handler: httpapi.NewRouter(controller, httpapi.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("quiz-service listening",
			"addr", listener.Addr().String(),
			"source", cfg.Provider.Source,
			"questions", cfg.Quiz.QuestionCount,
			"duration", cfg.Quiz.Duration,
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully...")
	case err := <-serverErr:
		runErr = fmt.Errorf("serve: %w", err)
	}

	// Closing the controller first ends timer websocket streams so Shutdown
	// does not wait on them.
	controller.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("quiz-service stopped")
	return runErr
}
