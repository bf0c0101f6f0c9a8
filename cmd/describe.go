package cmd

import (
	"fmt"
	"os"

	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe all UI elements on screen",
	Long: `Capture the accessibility tree of the frontmost app and print a summary
of the interactive elements with ready-to-use tap coordinates. With
--format yaml or --format json the raw snapshot is printed instead.

--role and --filter narrow the listing to matching elements; either may
be combined with the other.`,
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().Bool("nested", false, "preserve the element hierarchy instead of flattening")
	describeCmd.Flags().BoolP("verbose", "v", false, "list every element, not just interactive ones")
	describeCmd.Flags().String("role", "", "only list elements with this role, e.g. button or AXButton")
	describeCmd.Flags().String("filter", "", "only list elements whose label, title, or value contains this text")
	rootCmd.AddCommand(describeCmd)
}

// describeReport is the structured shape of a filtered describe.
type describeReport struct {
	OK       bool            `yaml:"ok"               json:"ok"`
	Action   string          `yaml:"action"           json:"action"`
	Target   string          `yaml:"target"           json:"target"`
	Role     string          `yaml:"role,omitempty"   json:"role,omitempty"`
	Filter   string          `yaml:"filter,omitempty" json:"filter,omitempty"`
	Total    int             `yaml:"total"            json:"total"`
	Elements []*foundElement `yaml:"elements"         json:"elements"`
}

// filterSnapshot narrows a snapshot to the elements matching the role and
// text filters, in walk order. Either filter may be empty; both together
// intersect.
func filterSnapshot(snap *model.Snapshot, role, text string) []*model.UIElement {
	switch {
	case role != "" && text != "":
		var out []*model.UIElement
		for _, el := range model.FilterByRole(snap, role) {
			if model.MatchText(el, text) {
				out = append(out, el)
			}
		}
		return out
	case role != "":
		return model.FilterByRole(snap, role)
	case text != "":
		return model.FilterByText(snap, text)
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	nested, _ := cmd.Flags().GetBool("nested")
	snap, err := p.Introspector.Capture(ctx, target, nested)
	if err != nil {
		return err
	}

	role, _ := cmd.Flags().GetString("role")
	filter, _ := cmd.Flags().GetString("filter")
	if role != "" || filter != "" {
		matches := filterSnapshot(snap, role, filter)
		if output.Structured() {
			rep := describeReport{OK: true, Action: "describe", Target: target,
				Role: role, Filter: filter, Total: snap.Len()}
			for _, el := range matches {
				rep.Elements = append(rep.Elements, newFoundElement(el))
			}
			return output.Print(rep)
		}
		fmt.Printf("Matched %d of %d elements:\n", len(matches), snap.Len())
		output.WriteElementList(os.Stdout, matches)
		return nil
	}

	if output.Structured() {
		return output.Print(snap)
	}

	output.WriteSummary(os.Stdout, "Full UI Accessibility Tree", snap)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		output.WriteElements(os.Stdout, snap)
	}
	return nil
}
