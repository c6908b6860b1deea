// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/novametrics/reviewpulse/internal/client/classifier"
	"github.com/novametrics/reviewpulse/internal/client/llm"
	"github.com/novametrics/reviewpulse/internal/config"
	"github.com/novametrics/reviewpulse/internal/dataset"
	"github.com/novametrics/reviewpulse/internal/event"
	handler "github.com/novametrics/reviewpulse/internal/handler/http"
	"github.com/novametrics/reviewpulse/internal/metrics"
	"github.com/novametrics/reviewpulse/internal/repository/postgres"
	"github.com/novametrics/reviewpulse/internal/sender"
	"github.com/novametrics/reviewpulse/internal/sender/mock"
	"github.com/novametrics/reviewpulse/internal/sender/relay"
	"github.com/novametrics/reviewpulse/internal/service"
	"github.com/novametrics/reviewpulse/internal/simulator"
	"github.com/novametrics/reviewpulse/pkg/database"
	"github.com/novametrics/reviewpulse/pkg/health"
	"github.com/novametrics/reviewpulse/pkg/kafka"
)

// App holds the assembled service and its resources.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	producer *kafka.Producer
	server   *http.Server
}

// New builds the application: resources, clients, services, handlers.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	events := event.NewProducer(producer, logger)

	source, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded",
		slog.String("path", cfg.DatasetPath),
		slog.Int("rows", source.Len()),
	)

	pipeline := metrics.New(prometheus.DefaultRegisterer)

	classifierClient := classifier.New(classifier.Config{
		BaseURL: cfg.ClassifierURL,
		Timeout: cfg.ClassifierTimeout,
	}, pipeline)

	llmClient := llm.New(llm.Config{
		BaseURL: cfg.LLMURL,
		Timeout: cfg.LLMTimeout,
	}, pipeline)

	var reportSender sender.Sender
	if cfg.MailRelayURL != "" {
		reportSender = relay.New(relay.Config{
			BaseURL: cfg.MailRelayURL,
			Timeout: cfg.MailRelayTimeout,
		})
	} else {
		reportSender = mock.New(logger)
	}
	logger.Info("report sender configured", slog.String("sender", reportSender.Name()))

	repo := postgres.NewReviewRepository(pool)

	reviewService := service.NewReviewService(repo, classifierClient, source, pipeline, events, logger)
	reportService := service.NewReportService(repo, llmClient, reportSender, events, cfg.MailFrom, logger)

	sim := simulator.New(classifierClient, source, repo, pipeline, events, logger)
	runner := simulator.NewRunner(sim, logger, func(ctx context.Context, summary simulator.Summary, state string) {
		events.SimulationCompleted(ctx, event.SimulationCompletedData{
			Sent:  summary.Sent,
			State: state,
		})
	})

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", producer.Ping)

	router := handler.NewRouter(handler.RouterDeps{
		Reviews:     handler.NewReviewHandler(reviewService, logger),
		Dashboard:   handler.NewDashboardHandler(reviewService, logger),
		Reports:     handler.NewReportHandler(reportService, logger),
		Simulations: handler.NewSimulationHandler(runner, reviewService, simulator.Config{
			Interval:    cfg.SimulationInterval,
			MaxDuration: cfg.SimulationMaxDuration,
		}, logger),
		Health:      healthHandler,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		producer: producer,
		server:   server,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
	}

	a.pool.Close()

	return nil
}
