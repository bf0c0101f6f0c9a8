package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key <key>",
	Short: "Press a key by keycode or name (enter, backspace, tab, …)",
	Args:  cobra.ExactArgs(1),
	RunE:  runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	key := args[0]
	code, err := action.ResolveKey(key)
	if err != nil {
		return err
	}

	req := action.KeyPress{Key: key}
	banner := fmt.Sprintf("key(%s)", key)
	return runCycle(req, banner, func(res *action.Result) {
		fmt.Printf("Key press: %s (code %d)\n", key, code)
	})
}
