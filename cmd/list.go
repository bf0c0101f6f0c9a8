package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

// listResult is the structured output of the list command.
type listResult struct {
	OK      bool            `yaml:"ok"      json:"ok"`
	Action  string          `yaml:"action"  json:"action"`
	Devices []driver.Target `yaml:"devices" json:"devices"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulators",
	Long:  "List the simulator devices known to the host, booted devices first.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("all", false, "Include unavailable devices (missing runtimes)")
}

func runList(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	all, _ := cmd.Flags().GetBool("all")

	targets, err := p.Devices.List(ctx)
	if err != nil {
		return err
	}
	if !all {
		targets = availableOnly(targets)
	}

	if output.Structured() {
		return output.Print(listResult{OK: true, Action: "list", Devices: targets})
	}

	fmt.Printf("\n%-38s  %-10s  %s\n", "UDID", "State", "Name")
	fmt.Println(output.Rule(78))
	for _, t := range targets {
		state := t.State
		if t.Booted() {
			state = "● BOOTED"
		}
		fmt.Printf("%s  %-10s  %s  [%s]\n", t.UDID, state, t.Name, t.Runtime)
	}
	return nil
}

func availableOnly(targets []driver.Target) []driver.Target {
	out := targets[:0]
	for _, t := range targets {
		if t.Available {
			out = append(out, t)
		}
	}
	return out
}
