// Package gemini provides a Completer backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/mwiater/gsmprompt/internal/appconfig"
)

// Requests are always sent with greedy sampling.
const temperature float32 = 0

// Provider implements providers.Completer with genai's GenerateContent call.
type Provider struct {
	client *genai.Client
	model  string
}

// New builds a Gemini client. apiKey must be non-empty; callers are expected
// to have checked credentials before reaching this point.
func New(ctx context.Context, cfg appconfig.Config, apiKey string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, appconfig.ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Provider{
		client: client,
		model:  cfg.ModelName(),
	}, nil
}

// Complete sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: response has no candidates")
	}
	return resp.Text(), nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
