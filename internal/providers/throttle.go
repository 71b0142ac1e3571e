package providers

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type throttledCompleter struct {
	next    Completer
	delay   time.Duration
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration)
}

// WithThrottle inserts a fixed pause after every call, successful or not, and
// optionally caps the call rate at requestsPerMinute. The pause is a caller
// side throttle for quota-limited endpoints; it adds to the call's latency.
func WithThrottle(next Completer, delay time.Duration, requestsPerMinute int) Completer {
	t := &throttledCompleter{next: next, delay: delay, sleep: sleepContext}
	if requestsPerMinute > 0 {
		t.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return t
}

func (t *throttledCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	text, err := t.next.Complete(ctx, prompt)
	if t.delay > 0 {
		t.sleep(ctx, t.delay)
	}
	return text, err
}

func (t *throttledCompleter) Close() error { return t.next.Close() }

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
