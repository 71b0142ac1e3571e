package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the effective configuration, defaults applied.
func ShowConfig(out io.Writer, file string, cfg Config, creds Credentials) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Provider:        %s\n", cfg.ProviderName())
	fmt.Fprintf(out, "  Model:           %s\n", cfg.ModelName())
	fmt.Fprintf(out, "  API Key:         %s\n", creds.Redacted())
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Max Retries:     %d\n", cfg.RetryCount())
	fmt.Fprintf(out, "  Request Delay:   %s\n", cfg.RequestDelay())
	fmt.Fprintf(out, "  Sample Size:     %d\n", cfg.SampleCount())
	fmt.Fprintf(out, "  Dev/Test Sizes:  %d/%d\n", cfg.DevCount(), cfg.TestCount())
	fmt.Fprintf(out, "  Seed:            %d\n", cfg.SeedValue())
	fmt.Fprintf(out, "  Generations:     %d\n", cfg.GenerationCount())
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDirectory())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
}

// DumpConfig pretty-prints the raw configuration struct.
func DumpConfig(out io.Writer, cfg Config) {
	pp.ColoringEnabled = false
	_, _ = pp.Fprintln(out, cfg)
}
