// Package app wires the extraction pipeline: compose the instruction,
// round-trip the model backend, parse the completion.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shpitdev/llm-data-extract/internal/backend"
	"github.com/shpitdev/llm-data-extract/internal/extract"
)

// Runner executes extraction requests against one backend. It holds no
// per-request state; invocations are independent.
type Runner struct {
	backend backend.Backend
	logger  *zap.Logger
	timeout time.Duration
}

func NewRunner(b backend.Backend, logger *zap.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		backend: b,
		logger:  logger,
		timeout: timeout,
	}
}

// Extract runs one request end to end. A backend failure is returned as an
// error (always a *backend.Error); a completion that cannot be interpreted
// comes back inside the Result as a ParseFailure. The two are never
// conflated.
func (r *Runner) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	reqID := fmt.Sprintf("req-%d", time.Now().UnixNano())
	prompt := extract.Compose(req.Prompt, req.Format)

	logger := r.logger.With(
		zap.String("request", reqID),
		zap.String("backend", r.backend.Name()),
		zap.String("format", string(req.Format)),
	)
	logger.Info("invoking model",
		zap.Int("promptChars", len(prompt)),
		zap.Duration("timeout", r.timeout),
	)

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := r.backend.Complete(callCtx, prompt)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Error("model invocation failed",
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return extract.Result{}, err
	}
	logger.Info("model invocation complete",
		zap.Duration("duration", elapsed),
		zap.Int("completionChars", len(completion)),
	)

	res := extract.Parse(completion, req.Format)
	if !res.Ok() {
		logger.Warn("completion did not parse",
			zap.String("reason", res.Failure.Reason),
		)
		return res, nil
	}
	logger.Info("completion parsed")
	return res, nil
}
