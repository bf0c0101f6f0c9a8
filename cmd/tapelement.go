package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var tapElementCmd = &cobra.Command{
	Use:   "tap-element <label>",
	Short: "Find element by label and tap its center",
	Long: `Find a UI element by its label, title, or value and tap its center.
This is the preferred way to tap: the coordinates come from a snapshot
taken immediately before the gesture, so layout changes cannot go stale.
Matching is exact first, then case-insensitive substring.`,
	Args: cobra.ExactArgs(1),
	RunE: runTapElement,
}

func init() {
	rootCmd.AddCommand(tapElementCmd)
}

func runTapElement(cmd *cobra.Command, args []string) error {
	label := args[0]
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	banner := fmt.Sprintf("tap-element '%s'", label)
	if !output.Structured() {
		fmt.Printf("\n▶ %s — running capture to find target …\n", banner)
	}

	orch := action.New(p.Introspector, p.Actuator, action.WithSettle(cfg.Settle.D()))
	res, runErr := orch.Run(ctx, target, action.TapElement{Label: label})

	if output.Structured() {
		return printCycleReport(action.TapElement{Label: label}, target, res, runErr)
	}
	if res == nil {
		return runErr
	}
	if res.Pre != nil {
		output.WriteSummary(os.Stdout, "PRE  | "+banner, res.Pre)
	}
	if runErr != nil {
		var notFound *action.ElementNotFoundError
		if errors.As(runErr, &notFound) && res.Pre != nil {
			output.WriteLabels(os.Stdout, res.Pre)
		}
		return runErr
	}
	if res.Element != nil && res.Resolved != nil {
		fmt.Printf("\nFound: [%s] '%s'  →  tapping (%.0f, %.0f)\n",
			output.DisplayRole(res.Element), res.Element.DisplayText(),
			res.Resolved.X, res.Resolved.Y)
	}
	if res.Post != nil {
		output.WriteSummary(os.Stdout, "POST | "+banner, res.Post)
	}
	writeDiff(os.Stdout, res.Diff)
	return nil
}
