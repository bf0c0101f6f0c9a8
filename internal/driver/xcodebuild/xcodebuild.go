// Package xcodebuild compiles app projects for the simulator SDK.
package xcodebuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
)

const tool = "xcodebuild"

// Defaults applied when the caller leaves BuildSpec fields empty.
const (
	DefaultConfiguration = "Debug"
	DefaultDerivedData   = "/tmp/sim-cli-derived"

	// Destination used when no device pins the build. Any recent phone
	// works; artifacts are architecture-bound, not device-bound.
	defaultDestination = "platform=iOS Simulator,name=iPhone 16 Pro"
)

// Client shells out to xcodebuild, streaming build output to out. It
// implements driver.Builder.
type Client struct {
	runner driver.Runner
	out    io.Writer
}

// NewClient builds a Client. Build logs are copied to out as they appear,
// since builds run far too long to buffer silently.
func NewClient(r driver.Runner, out io.Writer) *Client {
	return &Client{runner: r, out: out}
}

// Build runs one build and scans derived data for the .app products.
func (c *Client) Build(ctx context.Context, spec driver.BuildSpec) (*driver.BuildResult, error) {
	args, err := buildArgs(spec)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := c.runner.RunStream(ctx, c.out, tool, args...); err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	products, err := findProducts(derivedDataOrDefault(spec))
	if err != nil {
		return nil, err
	}
	return &driver.BuildResult{Products: products, Elapsed: time.Since(start)}, nil
}

func buildArgs(spec driver.BuildSpec) ([]string, error) {
	if spec.Scheme == "" {
		return nil, errors.New("a scheme is required")
	}
	if spec.Project != "" && spec.Workspace != "" {
		return nil, errors.New("pass either a project or a workspace, not both")
	}
	if spec.Project == "" && spec.Workspace == "" {
		return nil, errors.New("a project or workspace is required")
	}

	var args []string
	if spec.Workspace != "" {
		args = append(args, "-workspace", spec.Workspace)
	} else {
		args = append(args, "-project", spec.Project)
	}

	configuration := spec.Configuration
	if configuration == "" {
		configuration = DefaultConfiguration
	}

	args = append(args,
		"-scheme", spec.Scheme,
		"-sdk", "iphonesimulator",
		"-configuration", configuration,
		"-derivedDataPath", derivedDataOrDefault(spec),
	)

	if spec.DestinationUDID != "" {
		args = append(args, "-destination", "id="+spec.DestinationUDID)
	} else {
		args = append(args, "-destination", defaultDestination)
	}
	args = append(args, "build")
	return args, nil
}

func derivedDataOrDefault(spec driver.BuildSpec) string {
	if spec.DerivedData != "" {
		return spec.DerivedData
	}
	return DefaultDerivedData
}

// findProducts lists the .app bundles under the derived data products
// directory, e.g. Build/Products/Debug-iphonesimulator/My.app.
func findProducts(derivedData string) ([]string, error) {
	pattern := filepath.Join(derivedData, "Build", "Products", "*", "*.app")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return matches, nil
}
