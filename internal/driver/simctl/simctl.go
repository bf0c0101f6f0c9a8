// Package simctl drives Apple's simulator control tool for device
// lifecycle, discovery, and pasteboard access.
package simctl

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
)

const (
	tool           = "xcrun"
	runtimePrefix  = "com.apple.CoreSimulator.SimRuntime."
	defaultPollGap = 2 * time.Second
)

// Client shells out to xcrun simctl. It implements driver.DeviceManager
// and driver.Clipboard.
type Client struct {
	runner driver.Runner
}

// NewClient builds a Client on the given runner.
func NewClient(r driver.Runner) *Client {
	return &Client{runner: r}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"simctl"}, args...)
	return c.runner.Run(ctx, tool, full...)
}

// simctl list devices --json shape.
type devicesOutput struct {
	Devices map[string][]deviceRecord `json:"devices"`
}

type deviceRecord struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
}

// List returns all known simulator devices, booted first.
func (c *Client) List(ctx context.Context) ([]driver.Target, error) {
	out, err := c.run(ctx, "list", "devices", "--json")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return parseDevices(out)
}

func parseDevices(data []byte) ([]driver.Target, error) {
	var parsed devicesOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unparseable device list: %w", err)
	}

	var targets []driver.Target
	for runtimeID, devices := range parsed.Devices {
		for _, d := range devices {
			targets = append(targets, driver.Target{
				Name:      d.Name,
				UDID:      d.UDID,
				State:     d.State,
				Runtime:   runtimeLabel(runtimeID),
				Available: d.IsAvailable,
			})
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a.Booted() != b.Booted() {
			return a.Booted()
		}
		if a.Runtime != b.Runtime {
			return a.Runtime > b.Runtime
		}
		return a.Name < b.Name
	})
	return targets, nil
}

// runtimeLabel turns a runtime identifier into a readable version, e.g.
// com.apple.CoreSimulator.SimRuntime.iOS-17-5 becomes "iOS 17.5".
func runtimeLabel(id string) string {
	s := strings.TrimPrefix(id, runtimePrefix)
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return s
	}
	return parts[0] + " " + strings.ReplaceAll(parts[1], "-", ".")
}

// Boot starts a simulator. Booting an already-booted device is treated as
// success, matching how simctl itself reports that state.
func (c *Client) Boot(ctx context.Context, udid string) error {
	if _, err := c.run(ctx, "boot", udid); err != nil {
		if alreadyInState(err, "Booted") {
			return nil
		}
		return fmt.Errorf("boot %s: %w", udid, err)
	}
	return nil
}

// Shutdown stops a simulator. Shutting down an already-stopped device is
// treated as success.
func (c *Client) Shutdown(ctx context.Context, udid string) error {
	if _, err := c.run(ctx, "shutdown", udid); err != nil {
		if alreadyInState(err, "Shutdown") {
			return nil
		}
		return fmt.Errorf("shutdown %s: %w", udid, err)
	}
	return nil
}

// alreadyInState detects simctl's "Unable to boot device in current state:
// Booted" family of errors.
func alreadyInState(err error, state string) bool {
	ce, ok := err.(*driver.CommandError)
	return ok && strings.Contains(ce.Stderr, "current state: "+state)
}

// WaitForBoot polls the device list until the target reports Booted or the
// context expires.
func (c *Client) WaitForBoot(ctx context.Context, udid string) error {
	ticker := time.NewTicker(defaultPollGap)
	defer ticker.Stop()

	for {
		targets, err := c.List(ctx)
		if err != nil {
			return err
		}
		if t, ok := driver.FindTarget(targets, udid); ok && t.Booted() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s to boot", udid)
		case <-ticker.C:
		}
	}
}

// CopyTo places text on the target's pasteboard.
func (c *Client) CopyTo(ctx context.Context, target, text string) error {
	_, err := c.runner.RunInput(ctx, text, tool, "simctl", "pbcopy", target)
	if err != nil {
		return fmt.Errorf("pbcopy: %w", err)
	}
	return nil
}

// PasteFrom reads the target's pasteboard.
func (c *Client) PasteFrom(ctx context.Context, target string) (string, error) {
	out, err := c.run(ctx, "pbpaste", target)
	if err != nil {
		return "", fmt.Errorf("pbpaste: %w", err)
	}
	return string(out), nil
}
