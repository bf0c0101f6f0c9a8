package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/driver/idb"
	"github.com/simkit/sim-cli/internal/driver/simctl"
	"github.com/simkit/sim-cli/internal/driver/xcodebuild"
	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
)

// newProvider wires the real drivers behind one shared runner.
func newProvider() driver.Provider {
	r := driver.ExecRunner{}
	ui := idb.NewClient(r)
	sim := simctl.NewClient(r)

	// Build logs stream live; in structured mode they go to stderr so
	// stdout stays parseable.
	buildLogs := io.Writer(os.Stdout)
	if output.Structured() {
		buildLogs = os.Stderr
	}

	return driver.Provider{
		Introspector: ui,
		Actuator:     ui,
		Devices:      sim,
		Apps:         ui,
		Screens:      ui,
		Builder:      xcodebuild.NewClient(r, buildLogs),
		Clipboard:    sim,
	}
}

// commandContext returns a context bounded by --timeout, falling back to
// the config default.
func commandContext() (context.Context, context.CancelFunc) {
	timeout, _ := rootCmd.PersistentFlags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.Timeout.D()
	}
	return context.WithTimeout(context.Background(), timeout)
}

// requireTarget resolves the --udid flag to a concrete device identifier.
// The literal "booted" resolves through discovery and requires exactly one
// booted simulator; a missing flag is an error, never a silent guess.
func requireTarget(ctx context.Context, p driver.Provider) (string, error) {
	udid, _ := rootCmd.PersistentFlags().GetString("udid")
	if udid == "" {
		return "", errors.New("no target: pass --udid <udid>, or --udid booted for the single booted simulator")
	}
	if udid != driver.TargetBooted {
		return udid, nil
	}
	targets, err := p.Devices.List(ctx)
	if err != nil {
		return "", err
	}
	t, err := driver.ResolveBooted(targets)
	if err != nil {
		return "", err
	}
	return t.UDID, nil
}

// parseCoord parses a positional coordinate argument.
func parseCoord(arg, name string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a number", name, arg)
	}
	return v, nil
}

// cycleReport is the structured output of an action command.
type cycleReport struct {
	OK       bool               `yaml:"ok"                 json:"ok"`
	Action   string             `yaml:"action"             json:"action"`
	Target   string             `yaml:"target"             json:"target"`
	Status   action.Status      `yaml:"status,omitempty"   json:"status,omitempty"`
	Resolved *model.Point       `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	Pre      *output.Summary    `yaml:"pre,omitempty"      json:"pre,omitempty"`
	Post     *output.Summary    `yaml:"post,omitempty"     json:"post,omitempty"`
	Diff     *model.DiffSummary `yaml:"diff,omitempty"     json:"diff,omitempty"`
	Labels   []string           `yaml:"labels,omitempty"   json:"labels,omitempty"`
	Error    string             `yaml:"error,omitempty"    json:"error,omitempty"`
}

// newCycleReport assembles the structured report of a cycle. A resolution
// miss carries the on-screen labels so the caller can see what was there.
func newCycleReport(req action.Request, target string, res *action.Result, runErr error) cycleReport {
	rep := cycleReport{OK: runErr == nil, Action: req.Kind(), Target: target}
	if res != nil {
		rep.Status = res.Status
		rep.Resolved = res.Resolved
		rep.Pre = output.Summarize(res.Pre)
		rep.Post = output.Summarize(res.Post)
		rep.Diff = res.Diff
	}
	if runErr != nil {
		rep.Error = runErr.Error()
		var notFound *action.ElementNotFoundError
		if errors.As(runErr, &notFound) {
			rep.Labels = notFound.Labels
		}
	}
	return rep
}

// runCycle executes one validated action cycle against the flagged target
// and renders the result. banner is the human name of the action, e.g.
// "tap(100, 200)"; onSuccess prints the text-mode action line between the
// PRE and POST summaries.
func runCycle(req action.Request, banner string, onSuccess func(res *action.Result)) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	if !output.Structured() {
		fmt.Printf("\n▶ %s — capturing PRE-action UI state …\n", banner)
	}

	orch := action.New(p.Introspector, p.Actuator, action.WithSettle(cfg.Settle.D()))
	res, runErr := orch.Run(ctx, target, req)

	if output.Structured() {
		return printCycleReport(req, target, res, runErr)
	}
	return printCycleText(banner, res, runErr, onSuccess)
}

func printCycleText(banner string, res *action.Result, runErr error, onSuccess func(*action.Result)) error {
	if res == nil {
		// Validation rejected the request before any capture.
		return runErr
	}
	if res.Pre != nil {
		output.WriteSummary(os.Stdout, "PRE  | "+banner, res.Pre)
	}
	if runErr != nil {
		var notFound *action.ElementNotFoundError
		if errors.As(runErr, &notFound) && res.Pre != nil {
			output.WriteLabels(os.Stdout, res.Pre)
		}
		return runErr
	}
	if onSuccess != nil {
		onSuccess(res)
	}
	if res.Post != nil {
		fmt.Printf("\n▶ %s — capturing POST-action UI state …\n", banner)
		output.WriteSummary(os.Stdout, "POST | "+banner, res.Post)
	}
	writeDiff(os.Stdout, res.Diff)
	return nil
}

// printCycleReport emits the structured report, then propagates the run
// error so a failed cycle still exits non-zero.
func printCycleReport(req action.Request, target string, res *action.Result, runErr error) error {
	if err := output.Print(newCycleReport(req, target, res, runErr)); err != nil {
		return err
	}
	return runErr
}

// diffListCap bounds per-category diff listings in text mode.
const diffListCap = 10

// writeDiff renders the screen churn between the pre and post snapshots.
func writeDiff(w io.Writer, d *model.DiffSummary) {
	if d == nil {
		return
	}
	if d.Empty() {
		fmt.Fprintf(w, "\nNo observable UI change (%d elements unchanged).\n", d.Unchanged)
		return
	}
	fmt.Fprintf(w, "\nChanges: %d added, %d removed, %d changed, %d unchanged\n",
		len(d.Added), len(d.Removed), len(d.Changed), d.Unchanged)
	writeDiffEntries(w, "+", d.Added)
	writeDiffEntries(w, "-", d.Removed)
	for i, c := range d.Changed {
		if i == diffListCap {
			fmt.Fprintf(w, "  ~ … and %d more\n", len(d.Changed)-diffListCap)
			break
		}
		fmt.Fprintf(w, "  ~ [%s] '%s'  %s\n", model.ShortRole(c.Role), c.Text, formatChanges(c.Changes))
	}
}

func writeDiffEntries(w io.Writer, marker string, entries []string) {
	for i, e := range entries {
		if i == diffListCap {
			fmt.Fprintf(w, "  %s … and %d more\n", marker, len(entries)-diffListCap)
			break
		}
		fmt.Fprintf(w, "  %s %s\n", marker, e)
	}
}

// formatChanges flattens a per-field change map into "field: old → new"
// pairs, field-sorted so output is stable.
func formatChanges(changes map[string][2]string) string {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		ch := changes[f]
		parts = append(parts, fmt.Sprintf("%s: %q → %q", f, ch[0], ch[1]))
	}
	return strings.Join(parts, ", ")
}
