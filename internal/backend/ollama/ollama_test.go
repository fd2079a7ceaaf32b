package ollama_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shpitdev/llm-data-extract/internal/backend"
	"github.com/shpitdev/llm-data-extract/internal/backend/ollama"
	"github.com/shpitdev/llm-data-extract/internal/mockmodel"
)

func newTestClient(t *testing.T, srv *mockmodel.Server) *ollama.Client {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := ollama.New(ollama.Config{BaseURL: ts.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCompleteReturnsCompletionVerbatim(t *testing.T) {
	completion := "Sorry, here is your data: {\"a\":1}"
	srv := mockmodel.New(completion)
	client := newTestClient(t, srv)

	out, err := client.Complete(context.Background(), "extract the order")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != completion {
		t.Fatalf("completion mutated:\n got %q\nwant %q", out, completion)
	}

	calls := srv.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Model != "test-model" || !strings.Contains(calls[0].Prompt, "extract the order") {
		t.Fatalf("unexpected call: %+v", calls[0])
	}
}

func TestCompleteServerFailureIsBackendError(t *testing.T) {
	srv := mockmodel.New("unused")
	srv.FailWith(503)
	client := newTestClient(t, srv)

	_, err := client.Complete(context.Background(), "prompt")
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %v", err)
	}
	if be.Backend != "ollama" || !strings.Contains(be.Error(), "503") {
		t.Fatalf("unexpected error: %v", be)
	}
}

func TestNewRequiresModel(t *testing.T) {
	if _, err := ollama.New(ollama.Config{}); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
