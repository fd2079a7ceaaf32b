package backend

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Backend is the model-serving capability: one composed prompt in, one
// free-form text completion out. Implementations must not interpret the
// completion; parsing belongs to the caller.
type Backend interface {
	// Name identifies the backend in logs and error messages.
	Name() string

	// Complete submits the prompt and returns the raw completion text.
	// Failures are returned as *Error and are never disguised as parse
	// problems.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Error wraps a transport/auth/quota failure from a model backend. It is a
// distinct class from a parse failure: the model never responded with
// usable text, so there is nothing to interpret.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return "backend error"
	}
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// rateLimited throttles calls to the wrapped backend with a global limiter.
type rateLimited struct {
	next    Backend
	limiter *rate.Limiter
}

// RateLimited wraps a backend with a global requests-per-second limit.
// rps <= 0 disables limiting and returns next unchanged. This is a
// politeness throttle only; failed calls are never retried.
func RateLimited(next Backend, rps float64) Backend {
	if rps <= 0 {
		return next
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (r *rateLimited) Name() string { return r.next.Name() }

func (r *rateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &Error{Backend: r.next.Name(), Err: err}
	}
	return r.next.Complete(ctx, prompt)
}
