// Package idb drives Facebook's idb companion CLI, which provides both
// accessibility introspection and UI event injection for booted simulators.
package idb

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

const tool = "idb"

// Client shells out to idb. It implements driver.Introspector,
// driver.Actuator, driver.AppManager, and driver.Screenshotter.
type Client struct {
	runner driver.Runner
}

// NewClient builds a Client on the given runner.
func NewClient(r driver.Runner) *Client {
	return &Client{runner: r}
}

// run invokes idb with the target appended as a --udid flag, the position
// idb expects it in.
func (c *Client) run(ctx context.Context, target string, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+2)
	full = append(full, args...)
	full = append(full, "--udid", target)
	return c.runner.Run(ctx, tool, full...)
}

// Capture reads the accessibility tree of the target. nested asks idb for
// the element tree instead of the default flat listing.
func (c *Client) Capture(ctx context.Context, target string, nested bool) (*model.Snapshot, error) {
	args := []string{"ui", "describe-all", "--json"}
	if nested {
		args = append(args, "--nested")
	}
	out, err := c.run(ctx, target, args...)
	if err != nil {
		return nil, &driver.CaptureError{Target: target, Err: err}
	}
	snap, err := parseSnapshot(out, nested)
	if err != nil {
		return nil, &driver.CaptureError{Target: target, Err: err}
	}
	return snap, nil
}

// Perform issues one gesture.
func (c *Client) Perform(ctx context.Context, target string, g driver.Gesture) error {
	args, err := gestureArgs(g)
	if err != nil {
		return &driver.DispatchError{Gesture: g.Name(), Target: target, Err: err}
	}
	if _, err := c.run(ctx, target, args...); err != nil {
		return &driver.DispatchError{Gesture: g.Name(), Target: target, Err: err}
	}
	return nil
}

// gestureArgs maps a gesture onto an idb invocation. Coordinates are
// rounded to whole points because idb rejects fractional values.
func gestureArgs(g driver.Gesture) ([]string, error) {
	switch v := g.(type) {
	case driver.Tap:
		args := []string{"ui", "tap", coord(v.X), coord(v.Y)}
		if v.Duration > 0 {
			args = append(args, "--duration", formatSeconds(v.Duration))
		}
		return args, nil
	case driver.Swipe:
		args := []string{"ui", "swipe", coord(v.FromX), coord(v.FromY), coord(v.ToX), coord(v.ToY)}
		if v.Duration > 0 {
			args = append(args, "--duration", formatSeconds(v.Duration))
		}
		if v.Delta > 0 {
			args = append(args, "--delta", strconv.Itoa(v.Delta))
		}
		return args, nil
	case driver.TypeText:
		return []string{"ui", "text", v.Text}, nil
	case driver.KeyPress:
		return []string{"ui", "key", strconv.Itoa(v.Code)}, nil
	case driver.PressButton:
		return []string{"ui", "button", v.Button}, nil
	case driver.OpenURL:
		return []string{"open", v.URL}, nil
	default:
		return nil, fmt.Errorf("unsupported gesture %T", g)
	}
}

func coord(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Install installs an .app bundle or .ipa onto the target.
func (c *Client) Install(ctx context.Context, target, path string) error {
	if _, err := c.run(ctx, target, "install", path); err != nil {
		return fmt.Errorf("install %s: %w", path, err)
	}
	return nil
}

// Launch starts an installed app by bundle identifier.
func (c *Client) Launch(ctx context.Context, target, bundleID string) error {
	if _, err := c.run(ctx, target, "launch", bundleID); err != nil {
		return fmt.Errorf("launch %s: %w", bundleID, err)
	}
	return nil
}

// Terminate stops a running app by bundle identifier.
func (c *Client) Terminate(ctx context.Context, target, bundleID string) error {
	if _, err := c.run(ctx, target, "terminate", bundleID); err != nil {
		return fmt.Errorf("terminate %s: %w", bundleID, err)
	}
	return nil
}

// ListApps returns the installed applications with process state.
func (c *Client) ListApps(ctx context.Context, target string) ([]driver.AppInfo, error) {
	out, err := c.run(ctx, target, "list-apps", "--json", "--fetch-process-state")
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	return parseApps(out)
}

// Screenshot writes a PNG of the target's screen to outPath.
func (c *Client) Screenshot(ctx context.Context, target, outPath string) error {
	if _, err := c.run(ctx, target, "screenshot", outPath); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}
