// Package config loads tool configuration: built-in defaults, then an
// optional YAML file, then environment variable overrides. Secrets (AWS
// credentials, GEMINI_API_KEY) come from the environment only.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shpitdev/llm-data-extract/internal/backend/bedrock"
	"github.com/shpitdev/llm-data-extract/internal/backend/gemini"
	"github.com/shpitdev/llm-data-extract/internal/backend/ollama"
)

// Backend names accepted by Config.Backend.
const (
	BackendBedrock = "bedrock"
	BackendGemini  = "gemini"
	BackendOllama  = "ollama"
)

type Config struct {
	// Backend selects the model backend: bedrock, gemini, or ollama.
	Backend string `yaml:"backend"`

	// RequestTimeout bounds a single backend round-trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RateLimitRPS is a global request rate limit. 0 disables.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Bedrock bedrock.Config `yaml:"bedrock"`
	Gemini  gemini.Config  `yaml:"gemini"`
	Ollama  ollama.Config  `yaml:"ollama"`
}

func defaults() Config {
	return Config{
		Backend:        BackendBedrock,
		RequestTimeout: 60 * time.Second,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Load builds the effective configuration. A .env file in the working
// directory is applied to the environment first, best-effort, mirroring
// the usual local-credentials setup. path may be empty; a missing explicit
// file is an error, a missing default file is not.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	switch cfg.Backend {
	case BackendBedrock, BackendGemini, BackendOllama:
	default:
		return Config{}, fmt.Errorf("unknown backend %q (want bedrock, gemini, or ollama)", cfg.Backend)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Backend = envString("EXTRACT_BACKEND", cfg.Backend)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)

	timeout, err := envDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	if err != nil {
		return err
	}
	cfg.RequestTimeout = timeout

	rps, err := envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	if err != nil {
		return err
	}
	cfg.RateLimitRPS = rps

	cfg.Bedrock.Region = envString("AWS_REGION", cfg.Bedrock.Region)
	cfg.Bedrock.ModelID = envString("BEDROCK_MODEL_ID", cfg.Bedrock.ModelID)
	maxTokens, err := envInt("BEDROCK_MAX_TOKENS", cfg.Bedrock.MaxTokens)
	if err != nil {
		return err
	}
	cfg.Bedrock.MaxTokens = maxTokens

	cfg.Gemini.APIKey = envString("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = envString("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.BaseURL = envString("GEMINI_BASE_URL", cfg.Gemini.BaseURL)

	cfg.Ollama.BaseURL = envString("OLLAMA_BASE_URL", cfg.Ollama.BaseURL)
	cfg.Ollama.Model = envString("OLLAMA_MODEL", cfg.Ollama.Model)
	return nil
}

func envString(varName string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
