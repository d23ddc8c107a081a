// Package llm wraps an OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tabscope/internal/config"
	apperrors "tabscope/internal/errors"
	"tabscope/ports"
)

// Client talks to an OpenAI-compatible chat completions API (OpenRouter by
// default). It implements ports.LLMClient.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

// New creates a client from AI config. Returns nil when no API key is set so
// callers can branch to rule-based paths.
func New(cfg config.AIConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn prompt and returns the trimmed response text.
// Payment and quota failures come back as QUOTA_EXHAUSTED so callers can fall
// through to rule-based answering.
func (c *Client) Complete(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := c.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", apperrors.Wrap(err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, "create completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.Wrapf(err, "completion timeout after %v", c.timeout)
		}
		return "", apperrors.ExternalServiceError("llm", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(err, "read completion response")
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("llm API error (status %d): %s", resp.StatusCode, string(raw))
		if resp.StatusCode == http.StatusPaymentRequired || looksLikeQuota(string(raw)) {
			return "", apperrors.QuotaExhausted(apiErr)
		}
		return "", apperrors.ExternalServiceError("llm", apiErr)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.Wrap(err, "parse completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.ExternalServiceError("llm", fmt.Errorf("no choices in response"))
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func looksLikeQuota(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "credits") || strings.Contains(lower, "quota")
}
