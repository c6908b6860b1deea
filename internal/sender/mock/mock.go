// Package mock is a no-op sender used when no mail relay is configured.
package mock

import (
	"context"
	"log/slog"

	"github.com/novametrics/reviewpulse/internal/sender"
)

// Sender logs deliveries instead of sending them. Always succeeds.
type Sender struct {
	logger *slog.Logger
}

// New creates a mock sender.
func New(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name identifies the delivery channel.
func (s *Sender) Name() string {
	return "mock"
}

// Send logs the would-be delivery and reports success.
func (s *Sender) Send(ctx context.Context, msg sender.Message) error {
	s.logger.InfoContext(ctx, "mock delivery",
		slog.String("destination", msg.Destination),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}
