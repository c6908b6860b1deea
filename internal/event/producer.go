// Package event publishes domain events for downstream consumers.
package event

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/pkg/kafka"
	"github.com/novametrics/reviewpulse/pkg/logger"
)

// Topics for published events.
const (
	TopicReviewClassified    = "reviewpulse.review.classified"
	TopicReportGenerated     = "reviewpulse.report.generated"
	TopicSimulationCompleted = "reviewpulse.simulation.completed"
)

const source = "reviewpulse"

// Publisher sends an event envelope to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes domain events. Publishing is best-effort: failures are
// logged and never fail the triggering operation. A nil publisher disables
// publishing entirely.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer. publisher may be nil.
func NewProducer(publisher Publisher, log *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: log}
}

// ReviewClassifiedData is the payload of a review classified event.
type ReviewClassifiedData struct {
	ReviewID  string `json:"review_id"`
	Channel   string `json:"channel"`
	Sentiment string `json:"sentiment"`
	Origin    string `json:"origin"`
}

// ReviewClassified announces that a review was classified and stored.
// origin is "manual", "batch" or "simulation".
func (p *Producer) ReviewClassified(ctx context.Context, review *domain.Review, origin string) {
	p.publish(ctx, TopicReviewClassified, "review.classified", review.ID, "review", ReviewClassifiedData{
		ReviewID:  review.ID,
		Channel:   review.Channel,
		Sentiment: review.Sentiment,
		Origin:    origin,
	})
}

// ReportGeneratedData is the payload of a report generated event.
type ReportGeneratedData struct {
	Kind        string `json:"kind"`
	ReviewCount int    `json:"review_count"`
	Delivered   bool   `json:"delivered"`
	Recipient   string `json:"recipient,omitempty"`
}

// ReportGenerated announces that a report or assistant answer was produced.
func (p *Producer) ReportGenerated(ctx context.Context, data ReportGeneratedData) {
	p.publish(ctx, TopicReportGenerated, "report.generated", uuid.New().String(), "report", data)
}

// SimulationCompletedData is the payload of a simulation completed event.
type SimulationCompletedData struct {
	Sent  int    `json:"sent"`
	State string `json:"state"`
}

// SimulationCompleted announces that a simulation run reached a terminal
// state.
func (p *Producer) SimulationCompleted(ctx context.Context, data SimulationCompletedData) {
	p.publish(ctx, TopicSimulationCompleted, "simulation.completed", uuid.New().String(), "simulation", data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	if p.publisher == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
