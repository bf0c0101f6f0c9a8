package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/driver/xcodebuild"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

// buildReport is the structured output of the build command.
type buildReport struct {
	OK       bool     `yaml:"ok"       json:"ok"`
	Action   string   `yaml:"action"   json:"action"`
	Products []string `yaml:"products" json:"products"`
	Elapsed  string   `yaml:"elapsed"  json:"elapsed"`
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an app for the simulator",
	Long: `Compile a scheme against the iphonesimulator SDK and report the .app
products found in derived data. Build logs stream as they appear; in
structured output modes they go to stderr so stdout stays parseable.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("project", "p", "", ".xcodeproj path")
	buildCmd.Flags().StringP("workspace", "w", "", ".xcworkspace path")
	buildCmd.Flags().StringP("scheme", "s", "", "Scheme to build (required)")
	buildCmd.Flags().StringP("configuration", "c", xcodebuild.DefaultConfiguration, "Build configuration")
	buildCmd.Flags().StringP("derived-data", "d", "", "DerivedData path (default "+xcodebuild.DefaultDerivedData+")")
}

// buildContext bounds the build with the build timeout, which runs far
// longer than the per-tool default. An explicit --timeout still wins.
func buildContext() (context.Context, context.CancelFunc) {
	if rootCmd.PersistentFlags().Changed("timeout") {
		return commandContext()
	}
	return context.WithTimeout(context.Background(), cfg.BuildTimeout.D())
}

func runBuild(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := buildContext()
	defer cancel()

	scheme, _ := cmd.Flags().GetString("scheme")
	project, _ := cmd.Flags().GetString("project")
	workspace, _ := cmd.Flags().GetString("workspace")
	configuration, _ := cmd.Flags().GetString("configuration")
	derivedData, _ := cmd.Flags().GetString("derived-data")

	// The destination device is optional for builds; artifacts are
	// architecture-bound, not device-bound.
	var destination string
	if udid, _ := rootCmd.PersistentFlags().GetString("udid"); udid != "" {
		if udid == driver.TargetBooted {
			resolved, err := requireTarget(ctx, p)
			if err != nil {
				return err
			}
			destination = resolved
		} else {
			destination = udid
		}
	}

	if !output.Structured() {
		fmt.Printf("Building scheme %s (%s) …\n", scheme, configuration)
	}

	res, err := p.Builder.Build(ctx, driver.BuildSpec{
		Project:         project,
		Workspace:       workspace,
		Scheme:          scheme,
		Configuration:   configuration,
		DerivedData:     derivedData,
		DestinationUDID: destination,
	})
	if err != nil {
		return err
	}

	if output.Structured() {
		return output.Print(buildReport{
			OK:       true,
			Action:   "build",
			Products: res.Products,
			Elapsed:  res.Elapsed.Round(time.Second).String(),
		})
	}

	if derivedData == "" {
		derivedData = xcodebuild.DefaultDerivedData
	}
	fmt.Printf("\nBuild products: %s\n", filepath.Join(derivedData, "Build", "Products"))
	for _, product := range res.Products {
		fmt.Printf("  → %s\n", product)
	}
	fmt.Printf("Build finished in %s.\n", res.Elapsed.Round(time.Second))
	return nil
}
