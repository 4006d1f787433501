package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
)

const (
	DefaultHost    = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 2 * time.Minute
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the Ollama connection settings.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// OllamaClient talks to a local Ollama server over its generate endpoint.
type OllamaClient struct {
	host    string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOllamaClient creates a client. Zero-valued config fields take defaults.
func NewOllamaClient(cfg Config) *OllamaClient {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &OllamaClient{
		host:    strings.TrimRight(cfg.Host, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		client:  &http.Client{},
	}
}

// Model returns the model name sent with each request.
func (c *OllamaClient) Model() string {
	return c.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends one non-streaming generate request. It makes a single
// attempt bounded by the configured timeout.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	t := timeout.New[string](timeout.Config{DefaultTimeout: c.timeout})
	text, err := t.Execute(ctx, c.timeout, func(ctx context.Context) (string, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return text, nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return "", fmt.Errorf("%w: %v", ErrServiceNotRunning, err)
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrServiceUnavailable, err)
	}
	return out.Response, nil
}

// isUnreachable reports whether err means no connection could be made.
// Deadline and cancellation errors are not counted, even during dial.
func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
