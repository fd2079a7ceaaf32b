package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/shpitdev/llm-data-extract/internal/mockmodel"
)

func main() {
	addr := defaultString("MOCK_MODEL_ADDR", ":11434")
	completion := defaultString("MOCK_MODEL_COMPLETION", `{"status":"ok"}`)
	completionFile := defaultString("MOCK_MODEL_COMPLETION_FILE", "")

	fs := flag.NewFlagSet("mock-model", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&completion, "completion", completion, "Canned completion returned for every prompt")
	fs.StringVar(&completionFile, "completion-file", completionFile, "File whose contents are returned for every prompt (overrides --completion)")
	_ = fs.Parse(os.Args[1:])

	if completionFile != "" {
		b, err := os.ReadFile(completionFile)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read completion file: %v\n", err)
			os.Exit(2)
		}
		completion = string(b)
	}

	srv := mockmodel.New(completion)

	_, _ = fmt.Fprintf(os.Stdout, "mock-model listening on %s (completion=%d bytes)\n", addr, len(completion))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
