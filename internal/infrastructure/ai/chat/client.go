// Package chat implements ai.Client over an OpenAI-compatible chat/completions API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/infrastructure/ai"
	"golang.org/x/time/rate"
)

var _ ai.Client = (*Client)(nil)

const (
	// PerplexityEndpoint is the default chat/completions endpoint.
	PerplexityEndpoint = "https://api.perplexity.ai/chat/completions"
	// DefaultModel is used when no model is configured.
	DefaultModel = "sonar"
	// DefaultSystemPrompt frames every request.
	DefaultSystemPrompt = "You are an expert social media news editor. Create viral, factual content for Indian audiences. Be concise, engaging, and maintain journalistic integrity."

	defaultTimeout     = 60 * time.Second
	defaultAttempts    = 3
	defaultBackoff     = time.Second
	defaultMinInterval = time.Second
	maxResponseBytes   = 1 << 20
)

// ErrMissingAPIKey is returned when the client has no API key.
var ErrMissingAPIKey = errors.New("llm api key is not set")

// Options configures a Client.
type Options struct {
	Endpoint     string
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	// MinInterval is the minimum gap between requests.
	MinInterval time.Duration
	// Attempts is the total number of tries for retryable failures.
	Attempts int
	// Backoff is the first retry delay; it doubles on every further retry.
	Backoff time.Duration
}

// Client sends one prompt per request and returns the first choice's text.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// New creates a Client, filling defaults for unset options.
func New(opts Options, logger *log.Logger) *Client {
	if strings.TrimSpace(opts.Endpoint) == "" {
		opts.Endpoint = PerplexityEndpoint
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = DefaultModel
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MinInterval < 0 {
		opts.MinInterval = 0
	} else if opts.MinInterval == 0 {
		opts.MinInterval = defaultMinInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		logger:  logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.opts.Model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// StatusError is a non-2xx API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat api status %d: %s", e.Code, e.Body)
}

// Generate implements ai.Client.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.opts.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(completionRequest{
		Model: c.opts.Model,
		Messages: []message{
			{Role: "system", Content: c.opts.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	raw, err := c.doWithRetry(ctx, body)
	if err != nil {
		return "", err
	}

	var resp completionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat api returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// doWithRetry retries transport errors and 429/500/502/503/504 responses,
// sleeping Backoff, 2*Backoff, ... between attempts.
func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		if attempt > 1 {
			delay := c.opts.Backoff << (attempt - 2)
			c.logger.Warn("transient llm error, retrying", "attempt", attempt, "delay", delay, "err", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		respBody, err := c.do(ctx, body)
		if err == nil {
			return respBody, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		lastErr = err
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !retryable(statusErr.Code) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("chat api failed after %d attempts: %w", c.opts.Attempts, lastErr)
}

func (c *Client) do(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("llm response", "status", resp.StatusCode, "bytes", len(respBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Redact shortens a secret for logging.
func Redact(key string) string {
	if len(key) < 8 {
		if key == "" {
			return "not set"
		}
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
