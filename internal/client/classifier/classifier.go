// Package classifier is the HTTP client for the external sentiment
// classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/metrics"
	apperrors "github.com/novametrics/reviewpulse/pkg/errors"
	"github.com/novametrics/reviewpulse/pkg/httpclient"
)

// Config holds classifier client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the classification service and records pipeline metrics for
// every attempt. Requests are never retried: each call maps to exactly one
// backend attempt so the request and failure counters stay truthful.
type Client struct {
	http    *httpclient.Client
	baseURL string
	metrics *metrics.Pipeline
}

// New creates a classifier client.
func New(cfg Config, m *metrics.Pipeline) *Client {
	return &Client{
		http:    httpclient.New(httpclient.NoRetryConfig(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		metrics: m,
	}
}

type classifyRequest struct {
	Text    string `json:"texto"`
	Channel string `json:"canal"`
}

type classifyResponse struct {
	Sentiment *string `json:"sentimiento"`
}

// Classify sends one review for classification and returns the sentiment
// label. A response without a label yields "N/A" and counts as a success.
// Blank text is rejected before any backend call or counter increment.
func (c *Client) Classify(ctx context.Context, text, channel string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.InvalidInput("review text must not be empty")
	}

	c.metrics.InferenceRequests.Inc()

	start := time.Now()
	defer func() {
		c.metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(classifyRequest{Text: text, Channel: channel})
	if err != nil {
		c.metrics.InferenceFailures.Inc()
		return "", fmt.Errorf("marshal classify request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/classify", "application/json", bytes.NewReader(body))
	if err != nil {
		c.metrics.InferenceFailures.Inc()
		return "", fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.InferenceFailures.Inc()
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.InferenceFailures.Inc()
		return "", fmt.Errorf("decode classifier response: %w", err)
	}

	if out.Sentiment == nil || *out.Sentiment == "" {
		return domain.SentimentNA, nil
	}
	return *out.Sentiment, nil
}
