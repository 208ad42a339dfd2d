package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"paydash/internal/app"
	"paydash/internal/backend"
	"paydash/internal/cli"
	"paydash/internal/core"
	apphttp "paydash/internal/http"
	plog "paydash/internal/log"
	"paydash/internal/metrics"
	"paydash/internal/notify"
	"paydash/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, logger := cli.Bootstrap(plog.ComponentApp)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", plog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", plog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", plog.FieldError, err)
		}
	}()

	st, err := store.Open(ctx, res.Blobs, store.WithKey(cfg.BlobKey), store.WithLogger(logger))
	if errors.Is(err, core.ErrCorruptBlob) && cfg.ReseedOnCorrupt {
		logger.Warn("Persisted payments are corrupt, reseeding", plog.FieldError, err)
		err = st.Reseed(ctx)
	}
	if err != nil {
		logger.Error("Failed to load payments", plog.FieldError, err, plog.FieldErrorType, core.Kind(err))
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctrl := app.NewController(st,
		app.WithPublisher(res.Publisher),
		app.WithMetrics(collector),
		app.WithLogger(logger))

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Controller:         ctrl,
		Board:              notify.NewBoard(cfg.NotificationTTL),
		Sheets:             res.Sheets,
		Ready:              res.Ping,
		Metrics:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting paydash server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"payments", st.Len(),
			"change_feed", res.Publisher != nil,
			"sheets_export", res.Sheets != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", plog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
