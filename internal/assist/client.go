// Package assist talks to Groq's OpenAI-compatible chat completions endpoint.
package assist

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

const (
	DefaultURL         = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama3-8b-8192"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 400
	DefaultTimeout     = 30 * time.Second

	DefaultSystemPrompt = "You are a concise writing partner that helps researchers document lab work. " +
		"Clean up the text, keep it factual, and highlight measurable outcomes."
)

type Config struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// Request is one completion call. Zero values fall back to the client defaults.
// APIKey overrides every configured credential provider.
type Request struct {
	Prompt       string
	Temperature  *float64
	MaxTokens    int
	APIKey       string
	SystemPrompt string
	Model        string
}

type Client struct {
	url        string
	model      string
	providers  []CredentialProvider
	httpClient *http.Client
}

// New builds a client. Providers are consulted in order when a request
// carries no explicit key.
func New(cfg Config, providers ...CredentialProvider) *Client {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url:        url,
		model:      model,
		providers:  providers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient is New with a caller-supplied http.Client, used by tests
// to avoid network access.
func NewWithHTTPClient(cfg Config, httpClient *http.Client, providers ...CredentialProvider) *Client {
	c := New(cfg, providers...)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Available reports whether any credential source currently yields a key.
func (c *Client) Available() bool {
	_, err := resolveKey("", c.providers)
	return err == nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
	Messages    []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single chat completion and returns the trimmed reply.
// Without a resolvable key it returns ErrMissingCredential and makes no request.
func (c *Client) Complete(ctx context.Context, in Request) (string, error) {
	key, err := resolveKey(in.APIKey, c.providers)
	if err != nil {
		return "", err
	}

	body := chatCompletionRequest{
		Model:       c.model,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: DefaultSystemPrompt},
			{Role: "user", Content: strings.TrimSpace(in.Prompt)},
		},
	}
	if in.Model != "" {
		body.Model = in.Model
	}
	if in.Temperature != nil {
		body.Temperature = *in.Temperature
	}
	if in.MaxTokens > 0 {
		body.MaxTokens = in.MaxTokens
	}
	if in.SystemPrompt != "" {
		body.Messages[0].Content = in.SystemPrompt
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message == nil || out.Choices[0].Message.Content == nil {
		return "", ErrUnexpectedResponse
	}

	return strings.TrimSpace(*out.Choices[0].Message.Content), nil
}

// Polish rewrites text so it clearly communicates intent.
func (c *Client) Polish(ctx context.Context, text, intent string) (string, error) {
	prompt := "Rewrite the following note so it clearly communicates " + intent +
		". Keep technical terminology, reply in less than 180 words.\n\nTEXT:\n" + strings.TrimSpace(text)
	return c.Complete(ctx, Request{Prompt: prompt})
}

// Temperature is a helper for setting Request.Temperature inline.
func Temperature(t float64) *float64 { return &t }
