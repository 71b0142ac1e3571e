// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash-lite"
	// DefaultOllamaModel is used for the ollama provider when no model is set.
	DefaultOllamaModel = "llama3.2"
	// defaultRequestTimeout is the default per-request timeout for model calls.
	defaultRequestTimeout = 180 * time.Second
	// defaultRequestDelay is the pause inserted after every model call.
	defaultRequestDelay = 4 * time.Second
	defaultMaxRetries   = 3
	defaultSampleSize   = 150
	defaultDevSize      = 50
	defaultTestSize     = 150
	defaultSeed         = 32
	defaultGenerations  = 5
	defaultOutputDir    = "results"
)

// Provider names accepted in the configuration.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

var validate = validator.New()

// Config represents the top-level application configuration.
type Config struct {
	Provider          string  `json:"provider" mapstructure:"provider" validate:"omitempty,oneof=gemini ollama"`
	Model             string  `json:"model" mapstructure:"model"`
	BaseURL           string  `json:"baseURL,omitempty" mapstructure:"baseURL" validate:"omitempty,url"`
	TimeoutSeconds    int     `json:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	MaxRetries        int     `json:"maxRetries,omitempty" mapstructure:"maxRetries" validate:"gte=0,lte=10"`
	DelaySeconds      float64 `json:"delay,omitempty" mapstructure:"delay"`
	RequestsPerMinute int     `json:"requestsPerMinute,omitempty" mapstructure:"requestsPerMinute" validate:"gte=0"`
	Dataset           string  `json:"dataset,omitempty" mapstructure:"dataset"`
	SampleSize        int     `json:"sampleSize,omitempty" mapstructure:"sampleSize" validate:"gte=0"`
	DevSize           int     `json:"devSize,omitempty" mapstructure:"devSize" validate:"gte=0"`
	TestSize          int     `json:"testSize,omitempty" mapstructure:"testSize" validate:"gte=0"`
	Seed              *uint64 `json:"seed,omitempty" mapstructure:"seed"`
	Generations       int     `json:"generations,omitempty" mapstructure:"generations" validate:"gte=0"`
	OutputDir         string  `json:"outputDir,omitempty" mapstructure:"outputDir"`
	LogFile           string  `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug             bool    `json:"debug" mapstructure:"debug"`
	ConfigPath        string  `json:"-" mapstructure:"-"`
}

// ProviderName returns the configured provider, defaulting to Gemini.
func (c Config) ProviderName() string {
	if p := strings.ToLower(strings.TrimSpace(c.Provider)); p != "" {
		return p
	}
	return ProviderGemini
}

// ModelName returns the configured model, falling back to the provider's default.
func (c Config) ModelName() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	if c.ProviderName() == ProviderOllama {
		return DefaultOllamaModel
	}
	return DefaultModel
}

// RequestTimeout returns the timeout for a single model call.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryCount returns how many times a failed model call is retried.
func (c Config) RetryCount() int {
	if c.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return c.MaxRetries
}

// RequestDelay returns the pause inserted after every model call. A negative
// value disables the delay; zero selects the default.
func (c Config) RequestDelay() time.Duration {
	if c.DelaySeconds < 0 {
		return 0
	}
	if c.DelaySeconds == 0 {
		return defaultRequestDelay
	}
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// SampleCount returns the number of rows used by the direct and chain-of-thought runs.
func (c Config) SampleCount() int {
	if c.SampleSize <= 0 {
		return defaultSampleSize
	}
	return c.SampleSize
}

// DevCount returns the optimization set size.
func (c Config) DevCount() int {
	if c.DevSize <= 0 {
		return defaultDevSize
	}
	return c.DevSize
}

// TestCount returns the held-out test set size.
func (c Config) TestCount() int {
	if c.TestSize <= 0 {
		return defaultTestSize
	}
	return c.TestSize
}

// SeedValue returns the sampling seed. Zero is a valid explicit seed.
func (c Config) SeedValue() uint64 {
	if c.Seed == nil {
		return defaultSeed
	}
	return *c.Seed
}

// GenerationCount returns the optimizer's generation budget.
func (c Config) GenerationCount() int {
	if c.Generations <= 0 {
		return defaultGenerations
	}
	return c.Generations
}

// OutputDirectory returns where result files are written.
func (c Config) OutputDirectory() string {
	if d := strings.TrimSpace(c.OutputDir); d != "" {
		return d
	}
	return defaultOutputDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "gsmprompt.log"
}

// Validate checks field ranges and the provider name.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
