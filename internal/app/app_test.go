package app_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shpitdev/llm-data-extract/internal/app"
	"github.com/shpitdev/llm-data-extract/internal/backend"
	"github.com/shpitdev/llm-data-extract/internal/backend/ollama"
	"github.com/shpitdev/llm-data-extract/internal/extract"
	"github.com/shpitdev/llm-data-extract/internal/mockmodel"
)

type fakeBackend struct {
	completion string
	err        error
	lastPrompt string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

func TestExtractJSON(t *testing.T) {
	fake := &fakeBackend{completion: `{"name":"John Doe","age":30,"city":"New York"}`}
	runner := app.NewRunner(fake, nil, 0)

	res, err := runner.Extract(context.Background(), extract.Request{
		Prompt: "Extract the name, age, and city.",
		Format: extract.FormatJSON,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected failure: %+v", res.Failure)
	}

	obj, ok := res.Value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", res.Value)
	}
	if obj["name"] != "John Doe" || obj["age"] != float64(30) {
		t.Fatalf("unexpected value: %#v", obj)
	}

	// The backend must receive the composed prompt, not the raw one.
	if !strings.Contains(fake.lastPrompt, "Extract the name, age, and city.") {
		t.Fatalf("composed prompt must contain the raw prompt: %q", fake.lastPrompt)
	}
	if fake.lastPrompt == "Extract the name, age, and city." {
		t.Fatalf("prompt was sent without the format instruction")
	}
}

func TestExtractCSV(t *testing.T) {
	fake := &fakeBackend{completion: "name,age\nJohn Doe,30"}
	runner := app.NewRunner(fake, nil, 0)

	res, err := runner.Extract(context.Background(), extract.Request{
		Prompt: "List people.",
		Format: extract.FormatCSV,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected failure: %+v", res.Failure)
	}
	if res.Table.Field(0, "name") != "John Doe" {
		t.Fatalf("unexpected table: %+v", res.Table)
	}
}

func TestExtractParseFailureIsNotAnError(t *testing.T) {
	completion := "I could not produce structured output, sorry."
	fake := &fakeBackend{completion: completion}
	runner := app.NewRunner(fake, nil, 0)

	res, err := runner.Extract(context.Background(), extract.Request{
		Prompt: "Extract something.",
		Format: extract.FormatJSON,
	})
	if err != nil {
		t.Fatalf("parse problems must come back inside the result, got error: %v", err)
	}
	if res.Ok() {
		t.Fatalf("expected failure")
	}
	if res.Failure.RawText != completion {
		t.Fatalf("raw completion mutated: %q", res.Failure.RawText)
	}
}

func TestExtractBackendErrorIsNeverAParseFailure(t *testing.T) {
	cause := &backend.Error{Backend: "fake", Err: errors.New("quota exceeded")}
	fake := &fakeBackend{err: cause}
	runner := app.NewRunner(fake, nil, time.Second)

	res, err := runner.Extract(context.Background(), extract.Request{
		Prompt: "Extract something.",
		Format: extract.FormatCSV,
	})
	if err == nil {
		t.Fatalf("backend failure must propagate as an error")
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %v", err)
	}
	if res.Failure != nil {
		t.Fatalf("backend failure must not be disguised as a parse failure")
	}
}

// End-to-end over HTTP: runner -> ollama backend -> mock model server.
func TestExtractAgainstMockModel(t *testing.T) {
	srv := mockmodel.New("")
	srv.ScriptCompletion("products", "Product Name,Price,Stock\nA-series laptop,1200,50\nB-series monitor,400,120")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client, err := ollama.New(ollama.Config{BaseURL: ts.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	runner := app.NewRunner(backend.RateLimited(client, 50), nil, 10*time.Second)

	res, err := runner.Extract(context.Background(), extract.Request{
		Prompt: "List the products in stock.",
		Format: extract.FormatCSV,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected failure: %+v", res.Failure)
	}
	if len(res.Table.Rows) != 2 || res.Table.Field(1, "Price") != "400" {
		t.Fatalf("unexpected table: %+v", res.Table)
	}
}
