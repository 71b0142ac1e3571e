// Package providers defines the model client used by the evaluator and the
// optimizer, plus decorators that add retries, throttling and request logging
// around any concrete backend (Gemini, Ollama).
package providers

//go:generate mockgen -destination=mocks/mock_completer.go -package=mocks github.com/mwiater/gsmprompt/internal/providers Completer

import (
	"context"
)

// Completer sends a fully rendered prompt to a model and returns the raw text
// reply. Implementations are called sequentially; they need not be safe for
// concurrent use.
type Completer interface {
	// Complete sends prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
	// Close cleans up any resources used by the provider.
	Close() error
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Close is a no-op.
func (f CompleterFunc) Close() error { return nil }
