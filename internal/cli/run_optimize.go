// internal/cli/run_optimize.go
package gsmprompt

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/optimizer"
	"github.com/mwiater/gsmprompt/internal/prompt"
	"github.com/mwiater/gsmprompt/internal/results"
)

const (
	optimizeMode   = "optimize"
	bestPromptFile = "best_prompt.txt"
)

// runOptimizeCmd implements 'run optimize': targeted failure correction on a
// dev set, then a single evaluation of the best prompt on a disjoint test set.
var runOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a prompt against its failures and score it on a held-out set",
	RunE:  runOptimize,
}

func init() {
	runOptimizeCmd.Flags().Int("generations", 0, "number of optimization generations (default 5)")
	runOptimizeCmd.Flags().Int("dev", 0, "dev (optimization) set size (default 50)")
	runOptimizeCmd.Flags().Int("test", 0, "held-out test set size (default 150)")
	runOptimizeCmd.Flags().String("baseline", prompt.ChainOfThought.Name, "built-in starting prompt: direct or cot")
	runOptimizeCmd.Flags().String("prompt-file", "", "starting prompt template file (overrides --baseline)")
	runCmd.AddCommand(runOptimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	flags := cmd.Flags()
	if flags.Changed("generations") {
		cfg.Generations, _ = flags.GetInt("generations")
	}
	if flags.Changed("dev") {
		cfg.DevSize, _ = flags.GetInt("dev")
	}
	if flags.Changed("test") {
		cfg.TestSize, _ = flags.GetInt("test")
	}

	name, _ := flags.GetString("baseline")
	initial, err := prompt.Baseline(name)
	if err != nil {
		return err
	}
	if path, _ := flags.GetString("prompt-file"); path != "" {
		if initial, err = prompt.LoadFile(path); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, "--- Running Setup ---")
	s, err := newSession(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer s.Close()

	devSet, testSet := dataset.LoadSplit(ctx, s.source, cfg.DevCount(), cfg.TestCount(), cfg.SeedValue())
	fmt.Fprintf(out, "Created disjoint development set (%d samples) and test set (%d samples).\n", devSet.Len(), testSet.Len())
	fmt.Fprintln(out, "\n--- Setup Complete ---")

	opt := optimizer.New(s.client, cfg.GenerationCount(), out)
	res, err := opt.Run(ctx, initial, devSet)
	if err != nil {
		return err
	}

	best := res.Best.BestPrompt
	fmt.Fprintln(out, "\n--- Automated Optimization Complete ---")
	fmt.Fprintf(out, "Final Optimized Prompt:\n%s\n", best.Text)

	fmt.Fprintln(out, "\n--- Running Final Evaluation on the Held-Out Test Set ---")
	final := evaluator.New(s.client, out).Evaluate(ctx, best, testSet, "Final Test")
	if err := ctx.Err(); err != nil {
		return err
	}

	extra := []string{
		fmt.Sprintf("Dev Score: %.2f%% → %.2f%%", res.Initial.Accuracy*100, res.Best.BestScore*100),
		fmt.Sprintf("Generations: %d", len(res.Generations)),
	}
	printSummary(out, "Final Test (held-out)", final, append(extra, s.metrics.Summary()...)...)
	s.saveMetrics(optimizeMode)

	dir := cfg.OutputDirectory()
	summary := results.NewSummary(optimizeMode, cfg.ProviderName(), cfg.ModelName(), cfg.SeedValue(), best.Text, final)
	summary.Generations = res.Generations
	if err := saveRun(out, dir, optimizeMode, final, summary); err != nil {
		return err
	}
	promptPath := filepath.Join(dir, bestPromptFile)
	if err := results.WritePrompt(promptPath, best.Text); err != nil {
		return err
	}
	fmt.Fprintf(out, "Final optimized prompt saved to %s\n", promptPath)
	return nil
}
