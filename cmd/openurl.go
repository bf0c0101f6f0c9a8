package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var openURLCmd = &cobra.Command{
	Use:   "openurl <url>",
	Short: "Open a URL (http/https or deep-link scheme)",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpenURL,
}

func init() {
	rootCmd.AddCommand(openURLCmd)
}

func runOpenURL(cmd *cobra.Command, args []string) error {
	url := args[0]
	req := action.OpenURL{URL: url}
	banner := fmt.Sprintf("openurl(%s)", url)
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Opened URL: %s\n", url)
	})
}
