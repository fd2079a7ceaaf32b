// Package bedrock implements the model backend against Amazon Bedrock's
// InvokeModel API using the Cohere Command text models.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/shpitdev/llm-data-extract/internal/backend"
)

const (
	DefaultRegion  = "us-east-1"
	DefaultModelID = "cohere.command-text-v14"
)

type Config struct {
	Region  string `yaml:"region"`
	ModelID string `yaml:"model_id"`

	// Inference parameters passed through to the model. Zero temperature
	// and a near-zero p keep extraction output deterministic.
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	TopK        int     `yaml:"top_k"`
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Region) == "" {
		c.Region = DefaultRegion
	}
	if strings.TrimSpace(c.ModelID) == "" {
		c.ModelID = DefaultModelID
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	if c.TopP <= 0 {
		c.TopP = 0.01
	}
	return c
}

type Client struct {
	client  *bedrockruntime.Client
	modelID string
	params  Config
}

// New loads the ambient AWS credential chain for the configured region and
// returns a Bedrock-backed model client. Credentials come from the
// environment or shared config, never from this package's config file.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Client{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		params:  cfg,
	}, nil
}

func (c *Client) Name() string { return "bedrock" }

// commandRequest is the Cohere Command request body for InvokeModel.
type commandRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens"`
	Temperature       float64  `json:"temperature"`
	P                 float64  `json:"p"`
	K                 int      `json:"k"`
	StopSequences     []string `json:"stop_sequences"`
	ReturnLikelihoods string   `json:"return_likelihoods"`
}

type commandResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(requestBody(prompt, c.params))
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("encode request: %w", err)}
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: err}
	}

	var parsed commandResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Generations) == 0 {
		return "", &backend.Error{Backend: c.Name(), Err: fmt.Errorf("response contained no generations")}
	}
	return parsed.Generations[0].Text, nil
}

func requestBody(prompt string, cfg Config) commandRequest {
	return commandRequest{
		Prompt:            prompt,
		MaxTokens:         cfg.MaxTokens,
		Temperature:       cfg.Temperature,
		P:                 cfg.TopP,
		K:                 cfg.TopK,
		StopSequences:     []string{},
		ReturnLikelihoods: "NONE",
	}
}
