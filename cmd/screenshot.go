package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/simkit/sim-cli/internal/model"
	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot <path>",
	Short: "Capture the simulator screen to a PNG",
	Long: `Capture the simulator screen to a PNG file. With --annotate, a fresh
UI snapshot is taken and each interactive element gets a bounding box and
its tap coordinates drawn onto the image, so a vision model can go
straight from pixels to a tap command. --scale shrinks the image for
token efficiency.`,
	Args: cobra.ExactArgs(1),
	RunE: runScreenshot,
}

func init() {
	screenshotCmd.Flags().Bool("annotate", false, "draw element boxes and tap coordinates")
	screenshotCmd.Flags().Bool("all", false, "with --annotate, mark every element, not just interactive ones")
	screenshotCmd.Flags().String("filter", "", "with --annotate, only mark elements whose text contains this string")
	screenshotCmd.Flags().Float64("scale", 1.0, "scale factor 0.1-1.0")
	rootCmd.AddCommand(screenshotCmd)
}

type screenshotReport struct {
	OK        bool   `yaml:"ok"                  json:"ok"`
	Action    string `yaml:"action"              json:"action"`
	Target    string `yaml:"target"              json:"target"`
	Path      string `yaml:"path"                json:"path"`
	Width     int    `yaml:"width,omitempty"     json:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"    json:"height,omitempty"`
	Annotated int    `yaml:"annotated,omitempty" json:"annotated,omitempty"`
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	path := args[0]
	annotate, _ := cmd.Flags().GetBool("annotate")
	all, _ := cmd.Flags().GetBool("all")
	filter, _ := cmd.Flags().GetString("filter")
	scale, _ := cmd.Flags().GetFloat64("scale")
	if scale <= 0 || scale > 1.0 {
		return fmt.Errorf("invalid --scale %.2f: must be in (0, 1.0]", scale)
	}

	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}

	if err := p.Screens.Screenshot(ctx, target, path); err != nil {
		return err
	}

	rep := screenshotReport{OK: true, Action: "screenshot", Target: target, Path: path}

	if annotate || scale != 1.0 {
		img, err := loadPNG(path)
		if err != nil {
			return err
		}
		if scale != 1.0 {
			img = scaleImage(img, scale)
		}
		if annotate {
			// A fresh snapshot, so the boxes match what is on screen now.
			snap, err := p.Introspector.Capture(ctx, target, false)
			if err != nil {
				return err
			}
			annotated, n := annotateSnapshot(img, snap, all, filter)
			img, rep.Annotated = annotated, n
		}
		if err := savePNG(path, img); err != nil {
			return err
		}
		rep.Width = img.Bounds().Dx()
		rep.Height = img.Bounds().Dy()
	}

	if output.Structured() {
		return output.Print(rep)
	}
	fmt.Printf("Screenshot saved: %s\n", path)
	if rep.Width > 0 {
		fmt.Printf("  Size: %dx%d px\n", rep.Width, rep.Height)
	}
	if annotate {
		fmt.Printf("  Annotated %d elements with tap coordinates.\n", rep.Annotated)
	}
	return nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// annotatable selects the elements worth marking on a screenshot: boxes
// need a visible frame, and by default only interactive elements matter.
// A non-empty filter keeps only elements whose text matches it.
func annotatable(snap *model.Snapshot, all bool, filter string) []*model.UIElement {
	var out []*model.UIElement
	if all {
		snap.Walk(func(el *model.UIElement) bool {
			if el.Frame.Width > 0 && el.Frame.Height > 0 {
				out = append(out, el)
			}
			return true
		})
	} else {
		out = snap.Interactive()
	}
	if filter == "" {
		return out
	}
	var kept []*model.UIElement
	for _, el := range out {
		if model.MatchText(el, filter) {
			kept = append(kept, el)
		}
	}
	return kept
}
