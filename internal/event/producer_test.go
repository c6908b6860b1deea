package event

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/pkg/kafka"
	"github.com/novametrics/reviewpulse/pkg/logger"
)

type capturingPublisher struct {
	topics []string
	events []*kafka.Event
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, topic string, event *kafka.Event) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestReviewClassified_PublishesEnvelope(t *testing.T) {
	pub := &capturingPublisher{}
	producer := NewProducer(pub, newTestLogger())

	review := &domain.Review{
		ID:        "rev-1",
		Channel:   domain.ChannelWeb,
		Sentiment: domain.SentimentNegative,
		CreatedAt: time.Now().UTC(),
	}

	ctx := logger.WithCorrelationID(context.Background(), "corr-9")
	producer.ReviewClassified(ctx, review, "manual")

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicReviewClassified, pub.topics[0])

	evt := pub.events[0]
	assert.Equal(t, "review.classified", evt.EventType)
	assert.Equal(t, "rev-1", evt.AggregateID)
	assert.Equal(t, "corr-9", evt.CorrelationID)

	var data ReviewClassifiedData
	require.NoError(t, evt.UnmarshalData(&data))
	assert.Equal(t, "manual", data.Origin)
	assert.Equal(t, domain.SentimentNegative, data.Sentiment)
}

func TestSimulationCompleted_PublishesEnvelope(t *testing.T) {
	pub := &capturingPublisher{}
	producer := NewProducer(pub, newTestLogger())

	producer.SimulationCompleted(context.Background(), SimulationCompletedData{Sent: 42, State: "completed"})

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicSimulationCompleted, pub.topics[0])

	var data SimulationCompletedData
	require.NoError(t, pub.events[0].UnmarshalData(&data))
	assert.Equal(t, 42, data.Sent)
	assert.Equal(t, "completed", data.State)
}

func TestPublish_NilPublisherIsNoop(t *testing.T) {
	producer := NewProducer(nil, newTestLogger())

	assert.NotPanics(t, func() {
		producer.ReportGenerated(context.Background(), ReportGeneratedData{Kind: "report", ReviewCount: 3})
	})
}

func TestPublish_ErrorsDoNotPropagate(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("brokers unreachable")}
	producer := NewProducer(pub, newTestLogger())

	// Publishing is best-effort; the caller never sees the failure.
	assert.NotPanics(t, func() {
		producer.ReportGenerated(context.Background(), ReportGeneratedData{Kind: "assistant"})
	})
	assert.Len(t, pub.events, 1)
}
