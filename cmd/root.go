package cmd

import (
	"os"

	"github.com/simkit/sim-cli/internal/config"
	"github.com/simkit/sim-cli/internal/logger"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/simkit/sim-cli/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sim-cli",
	Short: "Drive iOS simulators through accessibility snapshots",
	Long: `A CLI that lets AI agents and scripts drive iOS simulators. Every gesture
is wrapped in an accessibility snapshot before and after, so the caller
always sees what was on screen and what the action changed.`,
}

// cfg holds the loaded configuration for the lifetime of one invocation.
// Commands read their defaults from it after PersistentPreRunE has run.
var cfg = config.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("udid", "", "Target simulator UDID, or 'booted' for the single booted device")
	rootCmd.PersistentFlags().String("format", "", "Output format: text, yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout per external tool invocation (default from config, 30s)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log external tool invocations to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/sim-cli/config.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logger.Init(verbose)

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		if format == "" {
			format = cfg.Format
		}
		parsed, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = parsed

		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
