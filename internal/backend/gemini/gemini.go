// Package gemini implements the model backend against the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shpitdev/llm-data-extract/internal/backend"
)

type Config struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string `yaml:"base_url"`
}

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: client,
		model:  strings.TrimSpace(cfg.Model),
	}, nil
}

func (c *Client) Name() string { return "gemini" }

// Complete asks for a plain-text completion. No response schema is set:
// the instruction suffix composed upstream carries the format contract,
// and the strict parser downstream verifies it.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			CandidateCount: 1,
		},
	)
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("response contained no text")}
	}
	return text, nil
}
