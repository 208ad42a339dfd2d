package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"paydash/internal/amqp"
	"paydash/internal/backend"
	"paydash/internal/cli"
	"paydash/internal/config"
	plog "paydash/internal/log"
	"paydash/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(plog.ComponentAudit)

	if !cfg.ChangeFeedEnabled() {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}
	if cfg.DataBackend == config.BackendMemory && cfg.SheetsExportEnabled() {
		logger.Warn("Memory backend is not shared with the dashboard, sheets mirror will stay empty")
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", plog.FieldError, err)
		os.Exit(1)
	}
	// The worker consumes with its own client; it never publishes.
	backendCfg.AMQPURL = ""
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", plog.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", plog.FieldError, err)
		}
	}()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", plog.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	w := worker.NewChangeWorker(res.Blobs, cfg.BlobKey, res.Sheets, logger)
	w.StartupMirror(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeChanges(gctx, w.HandleChange)
	})

	logger.Info("Audit worker running", "queue", cfg.AMQPQueue, "sheets_mirror", res.Sheets != nil)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", plog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Audit worker stopped")
}
