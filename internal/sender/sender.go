// Package sender defines the outbound delivery abstraction for synthesized
// reports.
package sender

import "context"

// Message is one outbound delivery.
type Message struct {
	Source      string
	Destination string
	Subject     string
	HTMLBody    string
}

// Sender delivers a message to a recipient through some channel.
type Sender interface {
	// Name identifies the delivery channel for logging.
	Name() string

	// Send delivers the message. Delivery is attempted exactly once.
	Send(ctx context.Context, msg Message) error
}
