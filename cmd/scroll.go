package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/driver"
	"github.com/spf13/cobra"
)

var scrollCmd = &cobra.Command{
	Use:   "scroll <up|down|left|right>",
	Short: "Scroll in a direction",
	Long: `Scroll by swiping from the screen center. Directions follow content,
not the finger: scrolling down reveals content below the current view,
which the finger achieves by moving up. The screen size comes from the
pre-action snapshot, so the gesture adapts to the device.`,
	Args: cobra.ExactArgs(1),
	RunE: runScroll,
}

func init() {
	scrollCmd.Flags().Float64("distance", 0, "swipe distance in points (0 uses the config default)")
	scrollCmd.Flags().Float64("speed", 0, "swipe duration in seconds (0 uses the config default)")
	rootCmd.AddCommand(scrollCmd)
}

func runScroll(cmd *cobra.Command, args []string) error {
	dir, err := action.ParseDirection(args[0])
	if err != nil {
		return err
	}
	distance, _ := cmd.Flags().GetFloat64("distance")
	if distance == 0 {
		distance = cfg.Scroll.Distance
	}
	speed, _ := cmd.Flags().GetFloat64("speed")
	if speed == 0 {
		speed = cfg.Scroll.Speed
	}

	req := action.Scroll{Direction: dir, Distance: distance, Speed: speed}
	banner := "scroll-" + string(dir)
	return runCycle(req, banner, func(res *action.Result) {
		if sw, ok := res.Gesture.(driver.Swipe); ok {
			fmt.Printf("Scrolled %s: swipe (%.0f,%.0f) → (%.0f,%.0f)\n",
				dir, sw.FromX, sw.FromY, sw.ToX, sw.ToY)
		}
	})
}
