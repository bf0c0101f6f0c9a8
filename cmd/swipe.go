package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe <x1> <y1> <x2> <y2>",
	Short: "Swipe from (x1,y1) to (x2,y2)",
	Args:  cobra.ExactArgs(4),
	RunE:  runSwipe,
}

func init() {
	swipeCmd.Flags().Float64("duration", 0, "swipe duration in seconds")
	swipeCmd.Flags().Int("delta", 0, "points between interpolated touch events")
	rootCmd.AddCommand(swipeCmd)
}

func runSwipe(cmd *cobra.Command, args []string) error {
	names := []string{"x1", "y1", "x2", "y2"}
	coords := make([]float64, 4)
	for i, arg := range args {
		v, err := parseCoord(arg, names[i])
		if err != nil {
			return err
		}
		coords[i] = v
	}
	duration, _ := cmd.Flags().GetFloat64("duration")
	delta, _ := cmd.Flags().GetInt("delta")

	req := action.SwipePoints{
		FromX: coords[0], FromY: coords[1],
		ToX: coords[2], ToY: coords[3],
		Duration: duration,
		Delta:    delta,
	}
	banner := fmt.Sprintf("swipe(%g,%g→%g,%g)", coords[0], coords[1], coords[2], coords[3])
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Swiped (%g,%g) → (%g,%g)\n", coords[0], coords[1], coords[2], coords[3])
	})
}
