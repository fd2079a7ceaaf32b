// Package ollama implements the model backend against a local server
// speaking the Ollama /api/generate protocol. cmd/mock-model serves the
// same protocol, so this backend doubles as the integration-test path.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shpitdev/llm-data-extract/internal/backend"
)

const DefaultBaseURL = "http://localhost:11434"

type Config struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		model:   strings.TrimSpace(cfg.Model),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (c *Client) Name() string { return "ollama" }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Response, nil
}
