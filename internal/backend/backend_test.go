package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shpitdev/llm-data-extract/internal/backend"
)

type fakeBackend struct {
	completion string
	err        error
	calls      int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &backend.Error{Backend: "bedrock", Err: cause}

	if got := err.Error(); got != "bedrock backend: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("Unwrap must expose the cause")
	}
}

func TestRateLimitedDisabledReturnsNext(t *testing.T) {
	fake := &fakeBackend{completion: "ok"}
	if got := backend.RateLimited(fake, 0); got != backend.Backend(fake) {
		t.Fatalf("rps<=0 must return the wrapped backend unchanged")
	}
}

func TestRateLimitedPassesThrough(t *testing.T) {
	fake := &fakeBackend{completion: `{"a":1}`}
	limited := backend.RateLimited(fake, 100)

	if limited.Name() != "fake" {
		t.Fatalf("name must delegate, got %q", limited.Name())
	}
	out, err := limited.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"a":1}` || fake.calls != 1 {
		t.Fatalf("wrapped backend not invoked: out=%q calls=%d", out, fake.calls)
	}
}

func TestRateLimitedCancelledContext(t *testing.T) {
	fake := &fakeBackend{completion: "ok"}
	limited := backend.RateLimited(fake, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	// Burn the initial token, then cancel so the second wait cannot complete.
	if _, err := limited.Complete(ctx, "first"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	cancel()

	_, err := limited.Complete(ctx, "second")
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("cancelled wait must not reach the backend, calls=%d", fake.calls)
	}
}
