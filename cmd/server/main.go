package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/novametrics/reviewpulse/internal/app"
	"github.com/novametrics/reviewpulse/internal/config"
	"github.com/novametrics/reviewpulse/pkg/logger"
	"github.com/novametrics/reviewpulse/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reviewpulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("reviewpulse", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "reviewpulse",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting reviewpulse",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.HTTPPort),
	)

	return application.Run(ctx)
}
