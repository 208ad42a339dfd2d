// Package cli provides common initialization for cmd/paydash and
// cmd/paydash-audit.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"paydash/internal/config"
	plog "paydash/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, component string) (*plog.Logger, error) {
	level, err := plog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := plog.New(plog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	plog.SetDefault(logger)
	return logger, nil
}

// Bootstrap loads .env and the configuration, validates it and sets up
// logging. Any failure is printed to stderr and exits the process.
func Bootstrap(component string) (*config.Config, *plog.Logger) {
	LoadEnvFile()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := SetupLogger(cfg, component)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *plog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received", plog.FieldOperation, plog.OpShutdown)
	}()
	return ctx, stop
}
