// Package llm is the HTTP client for the external text-generation service
// used to synthesize reports and answer analyst questions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/novametrics/reviewpulse/internal/metrics"
	"github.com/novametrics/reviewpulse/pkg/httpclient"
)

// Config holds generation client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Generation parameters fixed by the prompting contract.
const (
	maxTokens   = 800
	temperature = 0.7
)

// Client calls the generation service. Every invocation counts one prompt;
// any failure, transport or semantic, counts one error. No retries.
type Client struct {
	http    *httpclient.Client
	baseURL string
	metrics *metrics.Pipeline
}

// New creates a generation client.
func New(cfg Config, m *metrics.Pipeline) *Client {
	return &Client{
		http:    httpclient.New(httpclient.NoRetryConfig(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		metrics: m,
	}
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Completion *string `json:"completion"`
}

// Generate wraps the prompt in the conversational envelope the model expects
// and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.metrics.LLMRequests.Inc()

	wrapped := fmt.Sprintf("\n\nHuman:\n%s\n\nAssistant:", prompt)

	body, err := json.Marshal(generateRequest{
		Prompt:      wrapped,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		c.metrics.LLMErrors.Inc()
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		c.metrics.LLMErrors.Inc()
		return "", fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.LLMErrors.Inc()
		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.LLMErrors.Inc()
		return "", fmt.Errorf("decode generation response: %w", err)
	}

	if out.Completion == nil {
		c.metrics.LLMErrors.Inc()
		return "", fmt.Errorf("generation response missing completion")
	}

	return *out.Completion, nil
}
