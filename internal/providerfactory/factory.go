// Package providerfactory builds the model client selected by configuration
// and wraps it with the retry, throttle and logging decorators.
package providerfactory

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/gsmprompt/internal/appconfig"
	"github.com/mwiater/gsmprompt/internal/logging"
	"github.com/mwiater/gsmprompt/internal/metrics"
	"github.com/mwiater/gsmprompt/internal/providers"
	"github.com/mwiater/gsmprompt/internal/providers/gemini"
	"github.com/mwiater/gsmprompt/internal/providers/ollama"
)

// retryBaseWait is the first backoff interval for transient model failures.
var retryBaseWait = time.Second

// Option adjusts how NewCompleter assembles the client.
type Option func(*options)

type options struct {
	aggregator *metrics.Aggregator
}

// WithMetrics records every attempt, retries included, in agg.
func WithMetrics(agg *metrics.Aggregator) Option {
	return func(o *options) { o.aggregator = agg }
}

// NewCompleter selects and configures the completer for cfg. The returned
// client retries transient failures, waits cfg.RequestDelay() after every
// call and logs each request and response.
func NewCompleter(ctx context.Context, cfg appconfig.Config, creds appconfig.Credentials, opts ...Option) (providers.Completer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name := cfg.ProviderName()
	var base providers.Completer
	switch name {
	case appconfig.ProviderGemini:
		if err := creds.RequireAPIKey(name); err != nil {
			return nil, err
		}
		p, err := gemini.New(ctx, cfg, creds.APIKey())
		if err != nil {
			logging.LogError("gemini provider unavailable: %v", err)
			return nil, err
		}
		base = p
	case appconfig.ProviderOllama:
		base = ollama.New(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q", name)
	}
	logging.LogEvent("provider ready: %s/%s (delay=%s retries=%d)", name, cfg.ModelName(), cfg.RequestDelay(), cfg.RetryCount())

	if o.aggregator != nil {
		base = metrics.NewProvider(base, o.aggregator, cfg.ModelName())
	}
	c := providers.WithRetry(base, cfg.RetryCount(), retryBaseWait)
	c = providers.WithThrottle(c, cfg.RequestDelay(), cfg.RequestsPerMinute)
	return providers.WithLogging(c, name, cfg.ModelName()), nil
}
