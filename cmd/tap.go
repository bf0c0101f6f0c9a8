package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var tapCmd = &cobra.Command{
	Use:   "tap <x> <y>",
	Short: "Tap at x,y coordinates",
	Long: `Tap at explicit coordinates in logical points. The screen is captured
before and after the tap so the effect of the gesture is visible; prefer
tap-element when the target has a label, since that resolves live
coordinates instead of trusting stale ones.`,
	Args: cobra.ExactArgs(2),
	RunE: runTap,
}

func init() {
	tapCmd.Flags().Float64("duration", 0, "press duration in seconds (0 uses the tool default)")
	rootCmd.AddCommand(tapCmd)
}

func runTap(cmd *cobra.Command, args []string) error {
	x, err := parseCoord(args[0], "x")
	if err != nil {
		return err
	}
	y, err := parseCoord(args[1], "y")
	if err != nil {
		return err
	}
	duration, _ := cmd.Flags().GetFloat64("duration")

	req := action.TapPoint{X: x, Y: y, Duration: duration}
	banner := fmt.Sprintf("tap(%g, %g)", x, y)
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Tapped (%g, %g)\n", x, y)
	})
}
