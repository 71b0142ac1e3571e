// internal/cli/run_baseline.go
package gsmprompt

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/prompt"
	"github.com/mwiater/gsmprompt/internal/results"
)

// runDirectCmd implements 'run direct': the answer-only baseline.
var runDirectCmd = &cobra.Command{
	Use:   "direct",
	Short: "Evaluate the direct-answer prompt on a GSM8K sample",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBaseline(cmd, prompt.Direct, "Direct Answer Evaluation")
	},
}

// runCoTCmd implements 'run cot': the step-by-step baseline.
var runCoTCmd = &cobra.Command{
	Use:   "cot",
	Short: "Evaluate the chain-of-thought prompt on a GSM8K sample",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBaseline(cmd, prompt.ChainOfThought, "Chain-of-Thought Evaluation")
	},
}

func init() {
	for _, c := range []*cobra.Command{runDirectCmd, runCoTCmd} {
		c.Flags().Int("sample", 0, "number of problems to sample (default 150)")
		runCmd.AddCommand(c)
	}
}

// runBaseline samples the benchmark, scores tmpl on every row and writes
// <outputDir>/<template name>.csv.
func runBaseline(cmd *cobra.Command, tmpl prompt.Template, description string) error {
	cfg := GetConfig()
	if cmd.Flags().Changed("sample") {
		cfg.SampleSize, _ = cmd.Flags().GetInt("sample")
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, "--- Running Setup ---")
	s, err := newSession(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer s.Close()

	set, err := dataset.LoadSample(ctx, s.source, cfg.SampleCount(), cfg.SeedValue())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	fmt.Fprintf(out, "Data loaded: %d problems (seed %d)\n", set.Len(), cfg.SeedValue())
	fmt.Fprintln(out, "\n--- Setup Complete ---")

	report := evaluator.New(s.client, out).Evaluate(ctx, tmpl, set, description)
	if err := ctx.Err(); err != nil {
		return err
	}

	printSummary(out, description, report, s.metrics.Summary()...)
	s.saveMetrics(tmpl.Name)
	summary := results.NewSummary(tmpl.Name, cfg.ProviderName(), cfg.ModelName(), cfg.SeedValue(), tmpl.Text, report)
	return saveRun(out, cfg.OutputDirectory(), tmpl.Name, report, summary)
}
