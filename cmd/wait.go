package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/logger"
	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for an element to appear or disappear",
	Long: `Poll the UI until an element matching --for-label appears, or with
--gone, until it disappears. Each poll takes a fresh snapshot; capture
errors during a transition are tolerated until the deadline.

Exits non-zero when the deadline passes without the condition holding.`,
	RunE: runWait,
}

func init() {
	waitCmd.Flags().String("for-label", "", "element label, title, or value to wait for (required)")
	waitCmd.Flags().Bool("gone", false, "wait for the element to disappear instead")
	waitCmd.Flags().Duration("wait-timeout", 30*time.Second, "how long to keep polling")
	waitCmd.Flags().Duration("interval", 500*time.Millisecond, "delay between polls")
	_ = waitCmd.MarkFlagRequired("for-label")
	rootCmd.AddCommand(waitCmd)
}

type waitReport struct {
	OK       bool          `yaml:"ok"                 json:"ok"`
	Action   string        `yaml:"action"             json:"action"`
	Target   string        `yaml:"target"             json:"target"`
	Query    string        `yaml:"query"              json:"query"`
	Gone     bool          `yaml:"gone,omitempty"     json:"gone,omitempty"`
	Elapsed  string        `yaml:"elapsed"            json:"elapsed"`
	Polls    int           `yaml:"polls"              json:"polls"`
	TimedOut bool          `yaml:"timed_out,omitempty" json:"timed_out,omitempty"`
	Element  *foundElement `yaml:"element,omitempty"  json:"element,omitempty"`
	Error    string        `yaml:"error,omitempty"    json:"error,omitempty"`
}

// waitSatisfied reports whether the snapshot meets the wait condition.
func waitSatisfied(snap *model.Snapshot, query string, gone bool) (*model.UIElement, bool) {
	el, ok := model.Resolve(snap, query)
	if gone {
		return nil, !ok
	}
	return el, ok
}

// pollUntil polls the introspector every interval until cond is satisfied
// or the deadline passes. Used by wait, assert --retry, and do wait steps.
func pollUntil(ctx context.Context, intro driver.Introspector, target string,
	timeout, interval time.Duration, cond func(*model.Snapshot) bool) (polls int, elapsed time.Duration, ok bool) {

	start := time.Now()
	deadline := start.Add(timeout)
	for {
		capCtx, cancel := context.WithTimeout(ctx, cfg.Timeout.D())
		snap, err := intro.Capture(capCtx, target, false)
		cancel()
		polls++
		if err != nil {
			logger.Debugf("wait: capture failed (continuing): %v", err)
		} else if cond(snap) {
			return polls, time.Since(start), true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return polls, time.Since(start), false
		}
		time.Sleep(interval)
	}
}

func runWait(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("for-label")
	gone, _ := cmd.Flags().GetBool("gone")
	timeout, _ := cmd.Flags().GetDuration("wait-timeout")
	interval, _ := cmd.Flags().GetDuration("interval")

	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	condition := fmt.Sprintf("'%s' to appear", query)
	if gone {
		condition = fmt.Sprintf("'%s' to disappear", query)
	}
	if !output.Structured() {
		fmt.Printf("Waiting up to %s for %s …\n", timeout, condition)
	}

	// Polling runs past the per-command timeout, so it gets its own clock;
	// each individual capture stays bounded by cfg.Timeout inside pollUntil.
	var match *model.UIElement
	polls, elapsed, ok := pollUntil(context.Background(), p.Introspector, target,
		timeout, interval, func(snap *model.Snapshot) bool {
			el, met := waitSatisfied(snap, query, gone)
			match = el
			return met
		})

	rep := waitReport{
		OK:      ok,
		Action:  "wait",
		Target:  target,
		Query:   query,
		Gone:    gone,
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Polls:   polls,
	}
	if match != nil {
		rep.Element = newFoundElement(match)
	}
	if !ok {
		rep.TimedOut = true
		rep.Error = fmt.Sprintf("timed out after %s waiting for %s", timeout, condition)
	}

	if output.Structured() {
		if err := output.Print(rep); err != nil {
			return err
		}
	} else if ok {
		fmt.Printf("Condition met after %s (%d polls).\n", rep.Elapsed, polls)
		if match != nil {
			c := match.Center()
			fmt.Printf("  [%s] '%s'  center=(%.0f,%.0f)\n",
				output.DisplayRole(match), match.DisplayText(), c.X, c.Y)
		}
	}
	if !ok {
		return fmt.Errorf("timed out after %s waiting for %s", timeout, condition)
	}
	return nil
}
