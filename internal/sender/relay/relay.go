// Package relay delivers report messages through the HTTP mail relay.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/novametrics/reviewpulse/internal/sender"
	"github.com/novametrics/reviewpulse/pkg/httpclient"
)

// Config holds mail relay configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Sender posts messages to the relay's send endpoint. One attempt per
// delivery; the caller decides what a failed delivery means for the report.
type Sender struct {
	http    *httpclient.Client
	baseURL string
}

// New creates a relay sender.
func New(cfg Config) *Sender {
	return &Sender{
		http:    httpclient.New(httpclient.NoRetryConfig(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Name identifies the delivery channel.
func (s *Sender) Name() string {
	return "mail_relay"
}

type sendRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
}

// Send posts the message to the relay.
func (s *Sender) Send(ctx context.Context, msg sender.Message) error {
	body, err := json.Marshal(sendRequest{
		Source:      msg.Source,
		Destination: msg.Destination,
		Subject:     msg.Subject,
		HTMLBody:    msg.HTMLBody,
	})
	if err != nil {
		return fmt.Errorf("marshal relay request: %w", err)
	}

	resp, err := s.http.Post(ctx, s.baseURL+"/send", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("call mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	return nil
}
