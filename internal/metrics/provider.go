// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/gsmprompt/internal/providers"
)

// Provider is a decorator that records every call made through a Completer.
type Provider struct {
	wrapped    providers.Completer
	aggregator *Aggregator
	model      string
}

// NewProvider wraps a Completer so each call is recorded in aggregator under
// model.
func NewProvider(wrapped providers.Completer, aggregator *Aggregator, model string) *Provider {
	return &Provider{wrapped: wrapped, aggregator: aggregator, model: model}
}

// Complete forwards to the wrapped Completer and records the outcome.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := p.wrapped.Complete(ctx, prompt)
	if p.aggregator != nil {
		p.aggregator.Record(p.model, time.Since(start), len([]rune(prompt)), len([]rune(text)), err)
	}
	return text, err
}

// Close closes the wrapped Completer.
func (p *Provider) Close() error { return p.wrapped.Close() }
