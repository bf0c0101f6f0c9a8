package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/simkit/sim-cli/internal/model"
)

const (
	summaryRuleWidth = 56
	// maxInteractive caps the elements listed in a summary so a long form
	// does not drown the report.
	maxInteractive = 15
)

// Rule returns a horizontal rule of n box-drawing dashes.
func Rule(n int) string {
	return strings.Repeat("─", n)
}

// DisplayRole returns the element's type when the introspection tool
// reported one, falling back to the generic role. Listings prefer the
// concrete type ("Button") over the AX role behind it.
func DisplayRole(el *model.UIElement) string {
	if el.Type != "" {
		return el.Type
	}
	if el.Role != "" {
		return el.Role
	}
	return "?"
}

// WriteSummary renders the boxed human summary of a snapshot: frontmost
// app, element count, and the first interactive elements with ready-to-use
// tap coordinates.
func WriteSummary(w io.Writer, label string, snap *model.Snapshot) {
	sep := Rule(summaryRuleWidth)
	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  %s\n", label)
	fmt.Fprintln(w, sep)

	if app := snap.App(); app != nil {
		name := app.Label
		if name == "" {
			name = "?"
		}
		fmt.Fprintf(w, "  App    : %s\n", name)
	}
	fmt.Fprintf(w, "  Elements: %d\n", snap.Len())

	interactive := snap.Interactive()
	if len(interactive) > 0 {
		fmt.Fprintf(w, "\n  Interactive (%d):\n", len(interactive))
		for i, el := range interactive {
			if i == maxInteractive {
				fmt.Fprintf(w, "    … and %d more\n", len(interactive)-maxInteractive)
				break
			}
			c := el.Center()
			fmt.Fprintf(w, "    [%-22s] '%s'  →  tap(%.0f, %.0f)\n",
				DisplayRole(el), el.DisplayText(), c.X, c.Y)
		}
	}
	fmt.Fprintln(w, sep)
}

// WriteElements renders the full element listing for verbose inspection,
// one line per element with frame, center, and enabled state.
func WriteElements(w io.Writer, snap *model.Snapshot) {
	fmt.Fprintln(w, "\nAll elements:")
	snap.Walk(func(el *model.UIElement) bool {
		writeElementLine(w, el)
		return true
	})
}

// WriteElementList renders an already-selected element slice in the same
// one-line format as WriteElements, for filtered listings.
func WriteElementList(w io.Writer, els []*model.UIElement) {
	for _, el := range els {
		writeElementLine(w, el)
	}
}

func writeElementLine(w io.Writer, el *model.UIElement) {
	c := el.Center()
	state := "enabled"
	if !el.IsEnabled() {
		state = "disabled"
	}
	fmt.Fprintf(w, "  [%-24s] '%s'  frame=(%.0f,%.0f,%.0f×%.0f)  center=(%.0f,%.0f)  %s\n",
		DisplayRole(el), el.DisplayText(),
		el.Frame.X, el.Frame.Y, el.Frame.Width, el.Frame.Height,
		c.X, c.Y, state)
}

// WriteLabels renders every element that has display text, with its center.
// Shown when a label query comes up empty so the caller can see what was
// actually on screen.
func WriteLabels(w io.Writer, snap *model.Snapshot) {
	fmt.Fprintln(w, "\nAvailable labels:")
	snap.Walk(func(el *model.UIElement) bool {
		t := el.DisplayText()
		if t == "" {
			return true
		}
		c := el.Center()
		fmt.Fprintf(w, "  [%s] '%s'  center=(%.0f,%.0f)\n", DisplayRole(el), t, c.X, c.Y)
		return true
	})
}

// ElementSummary is one interactive element in a structured summary.
type ElementSummary struct {
	Role   string      `yaml:"role"           json:"role"`
	Text   string      `yaml:"text,omitempty" json:"text,omitempty"`
	Center model.Point `yaml:"center"         json:"center"`
}

// Summary is the structured counterpart of WriteSummary, embedded in
// command results when the output format is yaml or json.
type Summary struct {
	App         string           `yaml:"app,omitempty"         json:"app,omitempty"`
	Elements    int              `yaml:"elements"              json:"elements"`
	Interactive []ElementSummary `yaml:"interactive,omitempty" json:"interactive,omitempty"`
}

// Summarize reduces a snapshot to its structured summary. Nil in, nil out,
// so callers can pass a snapshot that was never taken.
func Summarize(snap *model.Snapshot) *Summary {
	if snap == nil {
		return nil
	}
	s := &Summary{Elements: snap.Len()}
	if app := snap.App(); app != nil {
		s.App = app.Label
	}
	for _, el := range snap.Interactive() {
		s.Interactive = append(s.Interactive, ElementSummary{
			Role:   DisplayRole(el),
			Text:   el.DisplayText(),
			Center: el.Center(),
		})
	}
	return s
}
