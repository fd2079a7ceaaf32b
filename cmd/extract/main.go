package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/shpitdev/llm-data-extract/internal/app"
	"github.com/shpitdev/llm-data-extract/internal/backend"
	"github.com/shpitdev/llm-data-extract/internal/backend/bedrock"
	"github.com/shpitdev/llm-data-extract/internal/backend/gemini"
	"github.com/shpitdev/llm-data-extract/internal/backend/ollama"
	"github.com/shpitdev/llm-data-extract/internal/config"
	"github.com/shpitdev/llm-data-extract/internal/extract"
	"github.com/shpitdev/llm-data-extract/internal/logging"
	"github.com/shpitdev/llm-data-extract/internal/render"
	"github.com/shpitdev/llm-data-extract/internal/ui"
	"github.com/shpitdev/llm-data-extract/internal/util"
	"github.com/shpitdev/llm-data-extract/internal/version"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	case "version", "--version":
		fmt.Println(version.Current)
		return
	case "run":
		os.Exit(runOnce(ctx, os.Args[2:]))
	case "interactive":
		os.Exit(runInteractive(ctx, os.Args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runOnce(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var configPath string
	var promptText string
	var promptFile string
	var formatName string
	var backendName string
	var requestTimeout time.Duration
	var rateLimitRPS float64
	var logLevel string

	fs.StringVar(&configPath, "config", "", "Optional YAML config file")
	fs.StringVar(&promptText, "prompt", "", "Prompt text (reads stdin when neither --prompt nor --prompt-file is given)")
	fs.StringVar(&promptFile, "prompt-file", "", "File containing the prompt text")
	fs.StringVar(&formatName, "format", "json", "Output format: json or csv")
	fs.StringVar(&backendName, "backend", "", "Model backend: bedrock, gemini, or ollama (env: EXTRACT_BACKEND)")
	fs.DurationVar(&requestTimeout, "timeout", 0, "Backend request timeout (env: REQUEST_TIMEOUT)")
	fs.Float64Var(&rateLimitRPS, "rate-limit-rps", -1, "Global request rate limit (RPS), 0 disables (env: RATE_LIMIT_RPS)")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath, backendName, requestTimeout, rateLimitRPS, logLevel)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	format, err := extract.ParseFormat(formatName)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		return 2
	}

	prompt, err := resolvePrompt(promptText, promptFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		return 2
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() {
		_ = logger.Sync()
	}()

	runner, err := newRunner(ctx, cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "backend config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	res, err := runner.Extract(ctx, extract.Request{Prompt: prompt, Format: format})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "extraction failed: %s\n", util.RedactSecrets(err.Error()))
		return 1
	}

	fmt.Println(render.Result(res))
	if !res.Ok() {
		return 1
	}
	return 0
}

func runInteractive(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var configPath string
	var backendName string
	fs.StringVar(&configPath, "config", "", "Optional YAML config file")
	fs.StringVar(&backendName, "backend", "", "Model backend: bedrock, gemini, or ollama (env: EXTRACT_BACKEND)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath, backendName, 0, -1, "")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() {
		_ = logger.Sync()
	}()

	runner, err := newRunner(ctx, cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "backend config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	lastPrompt := ""
	for {
		input, err := ui.PromptForm(lastPrompt)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		lastPrompt = input.Prompt

		res, err := runner.Extract(ctx, extract.Request{Prompt: input.Prompt, Format: input.Format})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "extraction failed: %s\n", util.RedactSecrets(err.Error()))
		} else {
			fmt.Println(render.Result(res))
		}

		again, err := ui.ConfirmAnother()
		if err != nil || !again {
			return 0
		}
	}
}

func loadConfig(path, backendName string, timeout time.Duration, rateLimitRPS float64, logLevel string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	// Flags beat file and environment.
	if strings.TrimSpace(backendName) != "" {
		cfg.Backend = strings.TrimSpace(backendName)
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	if rateLimitRPS >= 0 {
		cfg.RateLimitRPS = rateLimitRPS
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.LogLevel = strings.TrimSpace(logLevel)
	}
	switch cfg.Backend {
	case config.BackendBedrock, config.BackendGemini, config.BackendOllama:
		return cfg, nil
	default:
		return config.Config{}, fmt.Errorf("unknown backend %q (want bedrock, gemini, or ollama)", cfg.Backend)
	}
}

func newRunner(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app.Runner, error) {
	var b backend.Backend
	var err error
	switch cfg.Backend {
	case config.BackendBedrock:
		b, err = bedrock.New(ctx, cfg.Bedrock)
	case config.BackendGemini:
		b, err = gemini.New(ctx, cfg.Gemini)
	case config.BackendOllama:
		b, err = ollama.New(cfg.Ollama)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return app.NewRunner(backend.RateLimited(b, cfg.RateLimitRPS), logger, cfg.RequestTimeout), nil
}

func resolvePrompt(promptText, promptFile string) (string, error) {
	if strings.TrimSpace(promptText) != "" && strings.TrimSpace(promptFile) != "" {
		return "", fmt.Errorf("use --prompt or --prompt-file, not both")
	}
	if strings.TrimSpace(promptText) != "" {
		return promptText, nil
	}
	if strings.TrimSpace(promptFile) != "" {
		b, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("prompt is required (--prompt, --prompt-file, or stdin)")
	}
	return string(b), nil
}

func usage(w *os.File) {
	_, _ = fmt.Fprintf(w, `extract: structured data extraction from model output (JSON or CSV)

Usage:
  extract <command> [flags]

Commands:
  run          One-shot extraction from flags or stdin
  interactive  Terminal form: enter a prompt, pick a format, view the result
  version      Print the tool version

Examples:
  extract run --prompt 'Extract name and age from: John Doe, 30.' --format json
  extract run --prompt-file order.txt --format csv --backend ollama
  extract interactive --backend bedrock

Environment:
  EXTRACT_BACKEND     Model backend: bedrock, gemini, or ollama
  REQUEST_TIMEOUT     Backend request timeout (e.g. 60s)
  RATE_LIMIT_RPS      Global request rate limit, 0 disables
  LOG_LEVEL           debug, info, warn, error
  LOG_FORMAT          console or json

Environment (Bedrock):
  AWS_REGION              AWS region (default us-east-1)
  AWS_ACCESS_KEY_ID       AWS credentials (or shared config / aws configure)
  AWS_SECRET_ACCESS_KEY
  BEDROCK_MODEL_ID        Model id (default cohere.command-text-v14)
  BEDROCK_MAX_TOKENS      Completion token budget (default 4096)

Environment (Gemini):
  GEMINI_API_KEY      Gemini API key (required for --backend gemini)
  GEMINI_MODEL        Gemini model name
  GEMINI_BASE_URL     Optional base URL override (proxies/testing)

Environment (Ollama):
  OLLAMA_BASE_URL     Server base URL (default http://localhost:11434)
  OLLAMA_MODEL        Model name

`)
}
