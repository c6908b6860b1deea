// Package simulator generates paced synthetic review traffic against the
// classification pipeline.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/event"
	"github.com/novametrics/reviewpulse/internal/metrics"
)

// ErrEmptySource is returned when the sampling source has no usable rows.
var ErrEmptySource = errors.New("review source is empty")

// Default pacing for a simulation run.
const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxDuration = 10 * time.Minute
)

// Classifier sends one review through the classification pipeline.
type Classifier interface {
	Classify(ctx context.Context, text, channel string) (string, error)
}

// Source provides raw reviews to sample from.
type Source interface {
	Len() int
	Sample() domain.RawReview
}

// Store persists classified reviews.
type Store interface {
	Append(ctx context.Context, review *domain.Review) error
}

// Config holds simulation pacing. Zero values fall back to the defaults.
type Config struct {
	Interval    time.Duration
	MaxDuration time.Duration
}

// Progress describes one successfully sent review.
type Progress struct {
	Seq       int
	ReviewID  string
	Channel   string
	Sentiment string
}

// Observer is invoked after each successful send, on the run goroutine.
type Observer func(Progress)

// Summary reports the outcome of a run. Sent reflects successful sends even
// when the run ends with an error.
type Summary struct {
	Sent int
}

// Simulator drives a single run. Instances are cheap and single-use runs may
// share one.
type Simulator struct {
	classifier Classifier
	source     Source
	store      Store
	metrics    *metrics.Pipeline
	events     *event.Producer
	logger     *slog.Logger
}

// New creates a simulator.
func New(classifier Classifier, source Source, store Store, m *metrics.Pipeline, events *event.Producer, logger *slog.Logger) *Simulator {
	return &Simulator{
		classifier: classifier,
		source:     source,
		store:      store,
		metrics:    m,
		events:     events,
		logger:     logger,
	}
}

// Run sends sampled reviews through the classifier and persists each result,
// one per interval, until the maximum duration elapses, the context is
// cancelled, or a send fails. The first send happens immediately. The
// returned summary always counts completed sends; cancellation returns
// ctx.Err(), a classification or store failure returns the error wrapped with
// the sequence that failed.
func (s *Simulator) Run(ctx context.Context, cfg Config, observe Observer) (Summary, error) {
	if s.source.Len() == 0 {
		return Summary{}, ErrEmptySource
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxDuration := cfg.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	channels := domain.Channels()
	start := time.Now()
	summary := Summary{}

	for seq := 1; ; seq++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		raw := s.source.Sample()
		channel := channels[rand.IntN(len(channels))]

		sentiment, err := s.classifier.Classify(ctx, raw.Text, channel)
		if err != nil {
			return summary, fmt.Errorf("simulated review %d: %w", seq, err)
		}

		review := &domain.Review{
			ID:        uuid.New().String(),
			Text:      raw.Text,
			Channel:   channel,
			Sentiment: sentiment,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.Append(ctx, review); err != nil {
			return summary, fmt.Errorf("store simulated review %d: %w", seq, err)
		}

		summary.Sent++
		s.metrics.SimulatedReviews.Inc()
		s.events.ReviewClassified(ctx, review, "simulation")
		s.logger.DebugContext(ctx, "simulated review sent",
			slog.Int("seq", seq),
			slog.String("channel", channel),
			slog.String("sentiment", sentiment),
		)

		if observe != nil {
			observe(Progress{Seq: seq, ReviewID: review.ID, Channel: channel, Sentiment: sentiment})
		}

		if time.Since(start) >= maxDuration {
			return summary, nil
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return summary, ctx.Err()
		}

		if time.Since(start) >= maxDuration {
			return summary, nil
		}
	}
}
