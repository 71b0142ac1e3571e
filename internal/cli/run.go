// internal/cli/run.go
package gsmprompt

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the 'run' command group for the evaluation workflows.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Group commands for running evaluations",
	Long:  `The 'run' command groups the three run modes: direct-answer evaluation, chain-of-thought evaluation and prompt optimization.`,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.PersistentFlags().Uint64("seed", defaultSeedFlag, "random seed for dataset sampling")
	runCmd.PersistentFlags().String("dataset", "", "GSM8K parquet or JSONL location, URL or path (default Hugging Face train split)")
	_ = viper.BindPFlag("seed", runCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("dataset", runCmd.PersistentFlags().Lookup("dataset"))
}
