// Package service contains the business logic for review ingestion,
// dashboard aggregation and report synthesis.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novametrics/reviewpulse/internal/analytics"
	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/event"
	"github.com/novametrics/reviewpulse/internal/metrics"
	"github.com/novametrics/reviewpulse/internal/repository"
	apperrors "github.com/novametrics/reviewpulse/pkg/errors"
	"github.com/novametrics/reviewpulse/pkg/pagination"
)

// Batch submission bounds.
const (
	batchDefault = 5
	batchMax     = 20
	echoMaxRunes = 80
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

// ReviewService handles review submission and dashboard reads.
type ReviewService struct {
	repo       repository.ReviewRepository
	classifier Classifier
	source     Source
	metrics    *metrics.Pipeline
	events     *event.Producer
	logger     *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(
	repo repository.ReviewRepository,
	classifier Classifier,
	source Source,
	m *metrics.Pipeline,
	events *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:       repo,
		classifier: classifier,
		source:     source,
		metrics:    m,
		events:     events,
		logger:     logger,
	}
}

// Submit classifies and stores one manually entered review.
func (s *ReviewService) Submit(ctx context.Context, text, channel string) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidInput("review text must not be empty")
	}
	if !domain.IsValidChannel(channel) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown channel %q", channel))
	}

	sentiment, err := s.classifier.Classify(ctx, text, channel)
	if err != nil {
		return nil, fmt.Errorf("classify review: %w", err)
	}
	s.metrics.ManualReviews.Inc()

	review := &domain.Review{
		ID:        uuid.New().String(),
		Text:      text,
		Channel:   channel,
		Sentiment: sentiment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Append(ctx, review); err != nil {
		return nil, fmt.Errorf("store review: %w", err)
	}

	s.events.ReviewClassified(ctx, review, "manual")

	return review, nil
}

// BatchItem is the echo of one review sent in a batch.
type BatchItem struct {
	ID        string `json:"id"`
	Echo      string `json:"echo"`
	Channel   string `json:"channel"`
	Sentiment string `json:"sentiment"`
}

// SimulateBatch samples count reviews from the dataset and pushes them
// through the pipeline in one synchronous burst. count is clamped to [1, 20];
// zero means the default of 5. A classification failure stops the batch; the
// items already sent are returned alongside the error.
func (s *ReviewService) SimulateBatch(ctx context.Context, count int) ([]BatchItem, error) {
	if s.source.Len() == 0 {
		return nil, apperrors.NoEligibleInput("EMPTY_DATASET", "review dataset has no usable rows")
	}

	if count == 0 {
		count = batchDefault
	}
	if count < 1 {
		count = 1
	}
	if count > batchMax {
		count = batchMax
	}

	channels := domain.Channels()
	items := make([]BatchItem, 0, count)

	for i := 0; i < count; i++ {
		raw := s.source.Sample()
		channel := channels[rand.IntN(len(channels))]

		sentiment, err := s.classifier.Classify(ctx, raw.Text, channel)
		if err != nil {
			return items, fmt.Errorf("batch review %d: %w", i+1, err)
		}
		s.metrics.SimulatedReviews.Inc()

		review := &domain.Review{
			ID:        uuid.New().String(),
			Text:      raw.Text,
			Channel:   channel,
			Sentiment: sentiment,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.Append(ctx, review); err != nil {
			return items, fmt.Errorf("store batch review %d: %w", i+1, err)
		}

		s.events.ReviewClassified(ctx, review, "batch")

		items = append(items, BatchItem{
			ID:        review.ID,
			Echo:      truncateEcho(raw.Text),
			Channel:   channel,
			Sentiment: sentiment,
		})
	}

	return items, nil
}

// ListFilter narrows a review listing. Empty fields match everything; the
// store has no filtering contract, so matching happens after a full scan.
type ListFilter struct {
	Sentiment string
	Channel   string
}

func (f ListFilter) matches(r domain.Review) bool {
	if f.Sentiment != "" && r.Sentiment != f.Sentiment {
		return false
	}
	if f.Channel != "" && r.Channel != f.Channel {
		return false
	}
	return true
}

// List returns matching reviews newest first, paginated in memory after a
// full scan.
func (s *ReviewService) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Result[domain.Review], error) {
	reviews, err := s.repo.ScanAll(ctx)
	if err != nil {
		return pagination.Result[domain.Review]{}, fmt.Errorf("list reviews: %w", err)
	}

	matched := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if filter.matches(r) {
			matched = append(matched, r)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := pagination.Slice(matched, params)
	return pagination.NewResult(page, len(matched), params), nil
}

// Overview recomputes every dashboard aggregate from the full review set.
func (s *ReviewService) Overview(ctx context.Context) (analytics.Summary, error) {
	reviews, err := s.repo.ScanAll(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("load reviews for overview: %w", err)
	}
	return analytics.Overview(reviews, time.Now().UTC()), nil
}

// truncateEcho shortens the echoed review text to at most 80 runes, marking
// the cut with an ellipsis.
func truncateEcho(text string) string {
	runes := []rune(text)
	if len(runes) <= echoMaxRunes {
		return text
	}
	return string(runes[:echoMaxRunes]) + "…"
}
