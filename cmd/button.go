package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var buttonCmd = &cobra.Command{
	Use:   "button <name>",
	Short: "Press hardware button: HOME, LOCK, SIRI, SIDE_BUTTON, APPLE_PAY",
	Args:  cobra.ExactArgs(1),
	RunE:  runButton,
}

func init() {
	rootCmd.AddCommand(buttonCmd)
}

func runButton(cmd *cobra.Command, args []string) error {
	name, err := action.ResolveButton(args[0])
	if err != nil {
		return err
	}

	req := action.PressButton{Name: name}
	banner := fmt.Sprintf("button(%s)", name)
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Button: %s\n", name)
	})
}
