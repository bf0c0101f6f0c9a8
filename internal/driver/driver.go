// Package driver defines the boundary between sim-cli and the external
// tools that actually touch the simulator. Everything above this boundary
// works against interfaces so orchestration logic can be exercised with
// fake drivers returning canned snapshots.
package driver

import (
	"context"
	"time"

	"github.com/simkit/sim-cli/internal/model"
)

// Introspector captures the accessibility tree of a booted target.
type Introspector interface {
	// Capture reads a fresh snapshot. nested selects the tree form instead
	// of the default flat listing. The error is a *CaptureError when the
	// underlying tool failed or its output could not be understood.
	Capture(ctx context.Context, target string, nested bool) (*model.Snapshot, error)
}

// Actuator injects a gesture into a booted target.
type Actuator interface {
	// Perform issues one gesture. The error is a *DispatchError when the
	// injection tool rejected it.
	Perform(ctx context.Context, target string, g Gesture) error
}

// DeviceManager lists and drives simulator lifecycle state.
type DeviceManager interface {
	List(ctx context.Context) ([]Target, error)
	Boot(ctx context.Context, udid string) error
	Shutdown(ctx context.Context, udid string) error
}

// AppManager installs and runs applications on a booted target.
type AppManager interface {
	Install(ctx context.Context, target, path string) error
	Launch(ctx context.Context, target, bundleID string) error
	Terminate(ctx context.Context, target, bundleID string) error
	ListApps(ctx context.Context, target string) ([]AppInfo, error)
}

// Screenshotter writes a PNG of the target's screen to a local path.
type Screenshotter interface {
	Screenshot(ctx context.Context, target, outPath string) error
}

// Builder compiles an app for the simulator SDK.
type Builder interface {
	Build(ctx context.Context, spec BuildSpec) (*BuildResult, error)
}

// Clipboard accesses the target's pasteboard.
type Clipboard interface {
	CopyTo(ctx context.Context, target, text string) error
	PasteFrom(ctx context.Context, target string) (string, error)
}

// Provider bundles the driver backends a command may need. Fields are
// interfaces so tests can swap in fakes for any subset.
type Provider struct {
	Introspector Introspector
	Actuator     Actuator
	Devices      DeviceManager
	Apps         AppManager
	Screens      Screenshotter
	Builder      Builder
	Clipboard    Clipboard
}

// Target is one simulator device known to the host.
type Target struct {
	Name      string `json:"name"      yaml:"name"`
	UDID      string `json:"udid"      yaml:"udid"`
	State     string `json:"state"     yaml:"state"`
	Runtime   string `json:"runtime"   yaml:"runtime"`
	Available bool   `json:"available" yaml:"available"`
}

// Booted reports whether the target is currently running.
func (t Target) Booted() bool {
	return t.State == "Booted"
}

// AppInfo describes one installed application.
type AppInfo struct {
	BundleID     string `json:"bundle_id"               yaml:"bundle_id"`
	Name         string `json:"name,omitempty"          yaml:"name,omitempty"`
	InstallType  string `json:"install_type,omitempty"  yaml:"install_type,omitempty"`
	ProcessState string `json:"process_state,omitempty" yaml:"process_state,omitempty"`
	Debuggable   bool   `json:"debuggable,omitempty"    yaml:"debuggable,omitempty"`
}

// BuildSpec describes one simulator build invocation. Exactly one of
// Project or Workspace must be set.
type BuildSpec struct {
	Project       string
	Workspace     string
	Scheme        string
	Configuration string
	DerivedData   string
	// DestinationUDID pins the build destination to a concrete device.
	// Empty means a generic simulator destination.
	DestinationUDID string
}

// BuildResult reports a completed build.
type BuildResult struct {
	Products []string      `json:"products" yaml:"products"`
	Elapsed  time.Duration `json:"elapsed"  yaml:"elapsed"`
}
