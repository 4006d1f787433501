package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(generateResponse{Response: "[2, 1]", Done: true})
	}))
	defer server.Close()

	c := NewOllamaClient(Config{Host: server.URL + "/"})
	text, err := c.Generate(context.Background(), "order these")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "[2, 1]" {
		t.Errorf("text = %q, want %q", text, "[2, 1]")
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultModel)
	}
	if got.Prompt != "order these" {
		t.Errorf("prompt = %q, want %q", got.Prompt, "order these")
	}
	if got.Stream {
		t.Error("stream should be false")
	}
}

func TestOllamaGenerateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewOllamaClient(Config{Host: server.URL, Model: "missing"})
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
	if errors.Is(err, ErrServiceNotRunning) {
		t.Error("a reachable server should not be reported as not running")
	}
}

func TestOllamaGenerateBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewOllamaClient(Config{Host: server.URL})
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestOllamaGenerateNotRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := server.URL
	server.Close()

	c := NewOllamaClient(Config{Host: host})
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrServiceNotRunning) {
		t.Fatalf("err = %v, want ErrServiceNotRunning", err)
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Error("ErrServiceNotRunning should also match ErrServiceUnavailable")
	}
}

func TestOllamaGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewOllamaClient(Config{Host: server.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
	if errors.Is(err, ErrServiceNotRunning) {
		t.Error("timeout should not be reported as not running")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("generate took %v, want bounded by timeout", elapsed)
	}
}

func TestNewOllamaClientDefaults(t *testing.T) {
	c := NewOllamaClient(Config{})
	if c.host != DefaultHost {
		t.Errorf("host = %q, want %q", c.host, DefaultHost)
	}
	if c.Model() != DefaultModel {
		t.Errorf("model = %q, want %q", c.Model(), DefaultModel)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}
}
