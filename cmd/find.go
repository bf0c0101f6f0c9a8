package cmd

import (
	"fmt"
	"os"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <label>",
	Short: "Find a UI element and print its coordinates",
	Long: `Find a UI element by label, title, or value and print its frame,
center, and a ready-to-paste tap command. Matching is exact first, then
case-insensitive substring; the first match in tree order wins.

A miss lists every label on screen and exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

// foundElement is the structured shape of a resolved element, shared by
// find, assert, and the serve tools.
type foundElement struct {
	Role    string      `yaml:"role"           json:"role"`
	Text    string      `yaml:"text,omitempty" json:"text,omitempty"`
	Frame   model.Rect  `yaml:"frame"          json:"frame"`
	Center  model.Point `yaml:"center"         json:"center"`
	Enabled bool        `yaml:"enabled"        json:"enabled"`
}

func newFoundElement(el *model.UIElement) *foundElement {
	return &foundElement{
		Role:    output.DisplayRole(el),
		Text:    el.DisplayText(),
		Frame:   el.Frame,
		Center:  el.Center(),
		Enabled: el.IsEnabled(),
	}
}

type findReport struct {
	OK      bool          `yaml:"ok"                json:"ok"`
	Action  string        `yaml:"action"            json:"action"`
	Target  string        `yaml:"target"            json:"target"`
	Query   string        `yaml:"query"             json:"query"`
	Element *foundElement `yaml:"element,omitempty" json:"element,omitempty"`
	Labels  []string      `yaml:"labels,omitempty"  json:"labels,omitempty"`
	Error   string        `yaml:"error,omitempty"   json:"error,omitempty"`
}

func runFind(cmd *cobra.Command, args []string) error {
	query := args[0]
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	snap, err := p.Introspector.Capture(ctx, target, false)
	if err != nil {
		return err
	}

	el, ok := model.Resolve(snap, query)
	if !ok {
		missErr := &action.ElementNotFoundError{
			Query:        query,
			ElementCount: snap.Len(),
			Labels:       model.Labels(snap),
		}
		if output.Structured() {
			rep := findReport{Action: "find", Target: target, Query: query,
				Labels: missErr.Labels, Error: missErr.Error()}
			if err := output.Print(rep); err != nil {
				return err
			}
			return missErr
		}
		fmt.Printf("No element matching '%s' (%d elements on screen).\n", query, snap.Len())
		output.WriteLabels(os.Stdout, snap)
		return missErr
	}

	if output.Structured() {
		return output.Print(findReport{
			OK: true, Action: "find", Target: target, Query: query,
			Element: newFoundElement(el),
		})
	}

	c := el.Center()
	fmt.Printf("Found: [%s] '%s'\n", output.DisplayRole(el), el.DisplayText())
	fmt.Printf("  Frame : x=%.1f y=%.1f w=%.1f h=%.1f\n",
		el.Frame.X, el.Frame.Y, el.Frame.Width, el.Frame.Height)
	fmt.Printf("  Center: (%.0f, %.0f)\n", c.X, c.Y)
	fmt.Printf("  Tap   : sim-cli tap %.0f %.0f --udid %s\n", c.X, c.Y, target)
	return nil
}
