package appconfig

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrMissingAPIKey is returned when a provider that needs a key has none.
var ErrMissingAPIKey = errors.New("missing API key: set GOOGLE_API_KEY or GEMINI_API_KEY")

// Credentials holds secrets read from the environment. They are never read
// from the config file.
type Credentials struct {
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// LoadCredentials parses credentials from the process environment.
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// APIKey returns the Gemini key, preferring GOOGLE_API_KEY.
func (c Credentials) APIKey() string {
	if k := strings.TrimSpace(c.GoogleAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GeminiAPIKey)
}

// RequireAPIKey fails fast when the selected provider needs a key and none
// is set. There is no placeholder fallback.
func (c Credentials) RequireAPIKey(provider string) error {
	if provider != ProviderGemini {
		return nil
	}
	if c.APIKey() == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Redacted returns a short, safe rendering of the key for display.
func (c Credentials) Redacted() string {
	key := c.APIKey()
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
