package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/simkit/sim-cli/internal/model"
	"github.com/spf13/cobra"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Watch the UI and stream changes as JSONL",
	Long: `Continuously snapshot the UI and emit one JSON line per change:
elements added, removed, or mutated since the previous poll. Nothing is
emitted while the screen is stable, which makes this far cheaper to
follow than re-running describe.

Output is always JSONL regardless of --format. Stop with Ctrl+C, or pass
--duration to stop after a fixed window.`,
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().Duration("interval", time.Second, "delay between polls")
	observeCmd.Flags().Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(observeCmd)
}

// observeEvent is one JSONL line. Type is one of snapshot, added, removed,
// changed, error, done; the other fields are per-type.
type observeEvent struct {
	Type     string               `json:"type"`
	TS       string               `json:"ts"`
	Elements int                  `json:"elements,omitempty"`
	Element  string               `json:"element,omitempty"`
	Role     string               `json:"role,omitempty"`
	Text     string               `json:"text,omitempty"`
	Changes  map[string][2]string `json:"changes,omitempty"`
	Error    string               `json:"error,omitempty"`
	Elapsed  string               `json:"elapsed,omitempty"`
	Events   int                  `json:"events,omitempty"`
}

// diffEvents flattens a snapshot diff into the JSONL events it implies.
func diffEvents(d *model.DiffSummary, ts string) []observeEvent {
	var events []observeEvent
	for _, e := range d.Added {
		events = append(events, observeEvent{Type: "added", TS: ts, Element: e})
	}
	for _, e := range d.Removed {
		events = append(events, observeEvent{Type: "removed", TS: ts, Element: e})
	}
	for _, c := range d.Changed {
		events = append(events, observeEvent{
			Type: "changed", TS: ts,
			Role: model.ShortRole(c.Role), Text: c.Text, Changes: c.Changes,
		})
	}
	return events
}

func runObserve(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	duration, _ := cmd.Flags().GetDuration("duration")

	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	emit := func(ev observeEvent) {
		_ = enc.Encode(ev)
	}
	now := func() string { return time.Now().Format(time.RFC3339) }

	capture := func() (*model.Snapshot, error) {
		capCtx, capCancel := context.WithTimeout(context.Background(), cfg.Timeout.D())
		defer capCancel()
		return p.Introspector.Capture(capCtx, target, false)
	}

	prev, err := capture()
	if err != nil {
		return err
	}
	emit(observeEvent{Type: "snapshot", TS: now(), Elements: prev.Len()})

	start := time.Now()
	emitted := 0
	for {
		if duration > 0 && time.Since(start) >= duration {
			break
		}
		time.Sleep(interval)

		curr, err := capture()
		if err != nil {
			// The screen may be mid-transition; report and keep polling.
			emit(observeEvent{Type: "error", TS: now(), Error: err.Error()})
			emitted++
			continue
		}

		d := model.DiffSnapshots(prev, curr)
		for _, ev := range diffEvents(d, now()) {
			emit(ev)
			emitted++
		}
		prev = curr
	}

	emit(observeEvent{
		Type:    "done",
		TS:      now(),
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
		Events:  emitted,
	})
	return nil
}
