// internal/cli/show_config.go
package gsmprompt

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/gsmprompt/internal/appconfig"
)

// showConfigCmd implements 'show config', which prints the merged settings
// so config files and flag overrides can be checked before a long run.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := loadCredentials()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			if cfg, err = appconfig.Load(path); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		appconfig.ShowConfig(out, cfg.ConfigPath, cfg, creds)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			appconfig.DumpConfig(out, cfg)
		}
		return nil
	},
}

func init() {
	showConfigCmd.Flags().Bool("raw", false, "also dump the raw configuration struct")
	showConfigCmd.Flags().String("file", "", "check a standalone JSON config file instead of the merged settings")
	showCmd.AddCommand(showConfigCmd)
}
