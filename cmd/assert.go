package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert <label>",
	Short: "Assert an element state, for scripts and CI",
	Long: `Check that an element matching the label exists, optionally with an
expected value or enabled state, or with --gone that it is absent.

The check runs once against a fresh snapshot. With --retry it polls until
the assertion passes or the retry window closes. Exits 0 on pass, 1 on
fail, so it slots directly into shell scripts and CI steps.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssert,
}

func init() {
	assertCmd.Flags().Bool("gone", false, "assert the element is absent")
	assertCmd.Flags().String("value", "", "assert the element's value equals this exactly")
	assertCmd.Flags().String("value-contains", "", "assert the element's value contains this substring")
	assertCmd.Flags().Bool("enabled", false, "assert the element is enabled")
	assertCmd.Flags().Bool("disabled", false, "assert the element is disabled")
	assertCmd.Flags().Duration("retry", 0, "keep retrying for this long before failing (0 checks once)")
	assertCmd.Flags().Duration("interval", 500*time.Millisecond, "delay between retries")
	rootCmd.AddCommand(assertCmd)
}

// assertQuery is one assertion to evaluate against a snapshot.
type assertQuery struct {
	Label         string
	Gone          bool
	Value         string
	HasValue      bool
	ValueContains string
	Enabled       bool
	Disabled      bool
}

func (q assertQuery) validate() error {
	if q.Gone && (q.HasValue || q.ValueContains != "" || q.Enabled || q.Disabled) {
		return errors.New("--gone cannot be combined with property assertions")
	}
	if q.Enabled && q.Disabled {
		return errors.New("--enabled and --disabled are mutually exclusive")
	}
	return nil
}

// evaluateAssert checks one assertion against a snapshot. It returns the
// matched element (nil for --gone or a miss) and a failure description,
// empty on pass.
func evaluateAssert(snap *model.Snapshot, q assertQuery) (*model.UIElement, string) {
	el, ok := model.Resolve(snap, q.Label)
	if q.Gone {
		if ok {
			return el, fmt.Sprintf("element '%s' is still present", q.Label)
		}
		return nil, ""
	}
	if !ok {
		return nil, fmt.Sprintf("no element matching '%s' (%d elements on screen)", q.Label, snap.Len())
	}
	if q.HasValue && el.Value != q.Value {
		return el, fmt.Sprintf("value is %q, expected %q", el.Value, q.Value)
	}
	if q.ValueContains != "" && !strings.Contains(el.Value, q.ValueContains) {
		return el, fmt.Sprintf("value %q does not contain %q", el.Value, q.ValueContains)
	}
	if q.Enabled && !el.IsEnabled() {
		return el, "element is disabled, expected enabled"
	}
	if q.Disabled && el.IsEnabled() {
		return el, "element is enabled, expected disabled"
	}
	return el, ""
}

type assertReport struct {
	OK      bool          `yaml:"ok"                json:"ok"`
	Action  string        `yaml:"action"            json:"action"`
	Target  string        `yaml:"target"            json:"target"`
	Query   string        `yaml:"query"             json:"query"`
	Pass    bool          `yaml:"pass"              json:"pass"`
	Element *foundElement `yaml:"element,omitempty" json:"element,omitempty"`
	Error   string        `yaml:"error,omitempty"   json:"error,omitempty"`
}

func runAssert(cmd *cobra.Command, args []string) error {
	q := assertQuery{Label: args[0]}
	q.Gone, _ = cmd.Flags().GetBool("gone")
	q.Value, _ = cmd.Flags().GetString("value")
	q.HasValue = cmd.Flags().Changed("value")
	q.ValueContains, _ = cmd.Flags().GetString("value-contains")
	q.Enabled, _ = cmd.Flags().GetBool("enabled")
	q.Disabled, _ = cmd.Flags().GetBool("disabled")
	retry, _ := cmd.Flags().GetDuration("retry")
	interval, _ := cmd.Flags().GetDuration("interval")

	if err := q.validate(); err != nil {
		return err
	}

	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	var (
		match   *model.UIElement
		failure string
	)
	check := func(snap *model.Snapshot) bool {
		match, failure = evaluateAssert(snap, q)
		return failure == ""
	}

	var pass bool
	if retry > 0 {
		_, _, pass = pollUntil(context.Background(), p.Introspector, target, retry, interval, check)
	} else {
		snap, err := p.Introspector.Capture(ctx, target, false)
		if err != nil {
			return err
		}
		pass = check(snap)
	}

	rep := assertReport{OK: pass, Action: "assert", Target: target, Query: q.Label, Pass: pass}
	if match != nil {
		rep.Element = newFoundElement(match)
	}
	if !pass {
		rep.Error = failure
	}

	if output.Structured() {
		if err := output.Print(rep); err != nil {
			return err
		}
	} else if pass {
		fmt.Printf("PASS: '%s'\n", q.Label)
	} else {
		fmt.Printf("FAIL: %s\n", failure)
	}
	if !pass {
		return fmt.Errorf("assertion failed: %s", failure)
	}
	return nil
}
