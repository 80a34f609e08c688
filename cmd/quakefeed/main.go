// Command quakefeed consumes raw USGS earthquake features from Kafka, formats
// each one into a display row, and publishes the rows to a sink topic. It also
// serves health, readiness, metrics, and an on-demand display endpoint.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/quake-feed/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-feed/internal/adapter/kafka"
	"github.com/couchcryptid/quake-feed/internal/config"
	"github.com/couchcryptid/quake-feed/internal/domain"
	"github.com/couchcryptid/quake-feed/internal/observability"
	"github.com/couchcryptid/quake-feed/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("quakefeed exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	builder, err := domain.NewBuilder(cfg.Display)
	if err != nil {
		return err
	}
	logger.Info("display builder ready",
		"time_zone", cfg.Display.TimeZone,
		"location_match", cfg.Display.LocationMatch,
		"category_bounds", cfg.Display.CategoryBounds,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(builder, nil, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, builder, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	runErr := g.Wait()

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}
