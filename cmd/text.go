package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text <text>",
	Short: "Type text into the focused element",
	Long: `Type text into whatever element currently has keyboard focus. Focus is
not verified; tap a field first and check the POST summary to confirm
the text landed where intended.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	text := args[0]
	req := action.TypeText{Text: text}
	banner := fmt.Sprintf("text(%q)", text)
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Typed: %q\n", text)
	})
}
