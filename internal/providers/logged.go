package providers

import (
	"context"
	"time"

	"github.com/mwiater/gsmprompt/internal/logging"
)

type loggedCompleter struct {
	next     Completer
	provider string
	model    string
}

// WithLogging records every prompt and response in the run log.
func WithLogging(next Completer, provider, model string) Completer {
	return &loggedCompleter{next: next, provider: provider, model: model}
}

func (l *loggedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	logging.LogRequest("harness->llm", l.provider, l.model, prompt)
	start := time.Now()
	text, err := l.next.Complete(ctx, prompt)
	if err != nil {
		logging.LogError("%s/%s call failed after %s: %v", l.provider, l.model, time.Since(start).Round(time.Millisecond), err)
		return "", err
	}
	logging.LogRequest("llm->harness", l.provider, l.model, text)
	return text, nil
}

func (l *loggedCompleter) Close() error { return l.next.Close() }
