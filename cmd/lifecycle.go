package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/driver/simctl"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

// lifecycleResult is the structured output of boot and shutdown.
type lifecycleResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	UDID   string `yaml:"udid"   json:"udid"`
	State  string `yaml:"state"  json:"state"`
}

var bootCmd = &cobra.Command{
	Use:   "boot <udid>",
	Short: "Boot a simulator",
	Long: `Boot a simulator by UDID. Booting a device that is already booted
succeeds without complaint. With --wait the command blocks until the
device actually reports Booted, which install and launch need.`,
	Args: cobra.ExactArgs(1),
	RunE: runBoot,
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown <udid>",
	Short: "Shut down a simulator",
	Args:  cobra.ExactArgs(1),
	RunE:  runShutdown,
}

func init() {
	rootCmd.AddCommand(bootCmd)
	rootCmd.AddCommand(shutdownCmd)
	bootCmd.Flags().Bool("wait", false, "Block until the device reports Booted")
	bootCmd.Flags().Duration("boot-timeout", time.Minute, "How long --wait polls before giving up")
}

func runBoot(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	udid := args[0]
	if !output.Structured() {
		fmt.Printf("Booting %s …\n", udid)
	}
	if err := p.Devices.Boot(ctx, udid); err != nil {
		return err
	}

	wait, _ := cmd.Flags().GetBool("wait")
	if wait {
		bootTimeout, _ := cmd.Flags().GetDuration("boot-timeout")
		wctx, wcancel := context.WithTimeout(context.Background(), bootTimeout)
		defer wcancel()
		if !output.Structured() {
			fmt.Println("Waiting for boot …")
		}
		if err := simctl.NewClient(driver.ExecRunner{}).WaitForBoot(wctx, udid); err != nil {
			return err
		}
	}

	if output.Structured() {
		return output.Print(lifecycleResult{OK: true, Action: "boot", UDID: udid, State: "Booted"})
	}
	fmt.Println("Done.")
	return nil
}

func runShutdown(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	udid := args[0]
	if !output.Structured() {
		fmt.Printf("Shutting down %s …\n", udid)
	}
	if err := p.Devices.Shutdown(ctx, udid); err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(lifecycleResult{OK: true, Action: "shutdown", UDID: udid, State: "Shutdown"})
	}
	fmt.Println("Done.")
	return nil
}
