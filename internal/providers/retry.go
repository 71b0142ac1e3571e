package providers

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mwiater/gsmprompt/internal/logging"
)

type retryCompleter struct {
	next        Completer
	maxRetries  int
	initialWait time.Duration
}

// WithRetry retries failed calls up to maxRetries times with exponential
// backoff starting at initialWait. Context cancellation is never retried.
func WithRetry(next Completer, maxRetries int, initialWait time.Duration) Completer {
	if maxRetries <= 0 {
		return next
	}
	if initialWait <= 0 {
		initialWait = time.Second
	}
	return &retryCompleter{next: next, maxRetries: maxRetries, initialWait: initialWait}
}

func (r *retryCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialWait
	bo.MaxElapsedTime = 0

	var out string
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		text, err := r.next.Complete(ctx, prompt)
		if err == nil {
			out = text
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		logging.LogEvent("model call attempt %d/%d failed: %v", attempt, r.maxRetries+1, err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.maxRetries)), ctx))
	if err != nil {
		return "", err
	}
	return out, nil
}

func (r *retryCompleter) Close() error { return r.next.Close() }
