// Package ai talks to an OpenAI-compatible chat-completions endpoint for the
// tutor chat, generated mock tests and learning-profile suggestions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults for the hosted endpoint.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Error is returned when a call fails so callers can tell a bad reply from an
// unreachable endpoint.
type Error struct {
	Op      string
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("ai %s failed: %s: %v", e.Op, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("ai %s failed: %s", e.Op, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client calls the chat-completions endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client for cfg, filling defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Message is one chat turn. Role is "system", "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type callOptions struct {
	temperature *float64
	jsonOutput  bool
}

// complete sends one request and returns the first choice's text.
func (c *Client) complete(ctx context.Context, op string, messages []Message, opts callOptions) (string, error) {
	body := completionRequest{Model: c.model, Messages: messages, Temperature: opts.temperature}
	if opts.jsonOutput {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Op: op, Reason: "failed to marshal request", Wrapped: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", &Error{Op: op, Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Op: op, Reason: "request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &Error{Op: op, Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Op: op, Reason: "failed to decode response", Wrapped: err}
	}
	if len(out.Choices) == 0 {
		return "", &Error{Op: op, Reason: "no choices"}
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Op: op, Reason: "empty content"}
	}
	return content, nil
}
