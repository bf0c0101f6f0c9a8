package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

// launchSettle is how long a freshly launched app gets to draw its first
// screen before the post-launch snapshot.
const launchSettle = 1500 * time.Millisecond

// appResult is the structured output of install, launch, and terminate.
type appResult struct {
	OK       bool            `yaml:"ok"                json:"ok"`
	Action   string          `yaml:"action"            json:"action"`
	BundleID string          `yaml:"bundle_id,omitempty" json:"bundle_id,omitempty"`
	Path     string          `yaml:"path,omitempty"    json:"path,omitempty"`
	Summary  *output.Summary `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// appListResult is the structured output of list-apps.
type appListResult struct {
	OK     bool             `yaml:"ok"     json:"ok"`
	Action string           `yaml:"action" json:"action"`
	Apps   []driver.AppInfo `yaml:"apps"   json:"apps"`
}

var installCmd = &cobra.Command{
	Use:   "install <app-path>",
	Short: "Install an .app or .ipa on the simulator",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

var launchCmd = &cobra.Command{
	Use:   "launch <bundle-id>",
	Short: "Launch an app by bundle ID",
	Long: `Launch an app and, once it has had a moment to draw, capture a snapshot
of its first screen so the caller knows what is now tappable.`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

var terminateCmd = &cobra.Command{
	Use:   "terminate <bundle-id>",
	Short: "Terminate a running app",
	Args:  cobra.ExactArgs(1),
	RunE:  runTerminate,
}

var listAppsCmd = &cobra.Command{
	Use:   "list-apps",
	Short: "List installed apps",
	RunE:  runListApps,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(terminateCmd)
	rootCmd.AddCommand(listAppsCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	path := args[0]
	if !output.Structured() {
		fmt.Printf("Installing %s …\n", path)
	}
	if err := p.Apps.Install(ctx, target, path); err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(appResult{OK: true, Action: "install", Path: path})
	}
	fmt.Println("Installed.")
	return nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	bundleID := args[0]
	if !output.Structured() {
		fmt.Printf("Launching %s …\n", bundleID)
	}
	if err := p.Apps.Launch(ctx, target, bundleID); err != nil {
		return err
	}
	if !output.Structured() {
		fmt.Printf("Launched %s.\n", bundleID)
	}

	time.Sleep(launchSettle)
	snap, err := p.Introspector.Capture(ctx, target, false)
	if err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(appResult{
			OK:       true,
			Action:   "launch",
			BundleID: bundleID,
			Summary:  output.Summarize(snap),
		})
	}
	output.WriteSummary(os.Stdout, "LAUNCHED | "+bundleID, snap)
	return nil
}

func runTerminate(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	bundleID := args[0]
	if !output.Structured() {
		fmt.Printf("Terminating %s …\n", bundleID)
	}
	if err := p.Apps.Terminate(ctx, target, bundleID); err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(appResult{OK: true, Action: "terminate", BundleID: bundleID})
	}
	fmt.Printf("Terminated %s.\n", bundleID)
	return nil
}

func runListApps(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	apps, err := p.Apps.ListApps(ctx, target)
	if err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(appListResult{OK: true, Action: "list-apps", Apps: apps})
	}

	fmt.Printf("\n%-50s  %-12s  Name\n", "Bundle ID", "State")
	fmt.Println(output.Rule(80))
	for _, app := range apps {
		state := app.ProcessState
		if state == "" {
			state = "?"
		}
		name := app.Name
		if name == "" {
			name = app.BundleID
		}
		fmt.Printf("%-50s  %-12s  %s\n", app.BundleID, state, name)
	}
	return nil
}
