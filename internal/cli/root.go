// internal/cli/root.go
package gsmprompt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/gsmprompt/internal/appconfig"
)

const defaultSeedFlag = 32

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:          "gsmprompt",
	Short:        "Measure and optimize GSM8K math prompts against an LLM",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		if err := cfg.Validate(); err != nil {
			return err
		}
		currentConfig = &cfg
		return nil
	},
}

// Execute runs the root command. An interrupt cancels the command context so
// an in-flight evaluation stops after the current model call.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// --config (config/config.{json,yaml} or ./config.{json,yaml} when unset)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (e.g., config/config.json)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging (mirrors the log to stderr)")
	rootCmd.PersistentFlags().String("logFile", "", "log file path (default gsmprompt.log)")
	rootCmd.PersistentFlags().String("provider", "", "model provider: gemini or ollama (default gemini)")
	rootCmd.PersistentFlags().String("model", "", "model name (default depends on provider)")
	rootCmd.PersistentFlags().Float64("delay", 0, "seconds to wait after every model call; negative disables (default 4)")
	rootCmd.PersistentFlags().String("outputDir", "", "directory for result files (default results)")

	// Bind flags to Viper keys (flags override config)
	for _, name := range []string{"debug", "logFile", "provider", "model", "delay", "outputDir"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}
	viper.SetConfigName("config")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
}

// ensureConfigLoaded reads the config file, if any.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && errors.Is(err, fs.ErrNotExist)) {
			// No file: fine, we'll use defaults/flags
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the merged configuration for the running command.
func GetConfig() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Config{}
	}
	return *currentConfig
}
