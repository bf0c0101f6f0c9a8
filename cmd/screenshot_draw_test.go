package cmd

import (
	"image"
	"image/color"
	"testing"

	"github.com/simkit/sim-cli/internal/model"
)

func drawFixture() *model.Snapshot {
	return &model.Snapshot{Elements: []model.UIElement{
		{Role: "AXApplication", Label: "Demo", Frame: model.Rect{Width: 390, Height: 844}},
		{Role: "AXButton", Type: "Button", Label: "OK", Frame: model.Rect{X: 10, Y: 10, Width: 100, Height: 50}},
		{Role: "AXStaticText", Label: "Caption", Frame: model.Rect{X: 10, Y: 70, Width: 100, Height: 20}},
	}}
}

func TestAnnotateSnapshot_DrawsInteractiveBoxes(t *testing.T) {
	// 2x pixel density: 390x844 points rendered at 780x1688.
	img := image.NewRGBA(image.Rect(0, 0, 780, 1688))
	snap := drawFixture()

	rgba, count := annotateSnapshot(img, snap, false, "")

	if count != 1 {
		t.Fatalf("annotated %d elements, want 1 (only the button is interactive)", count)
	}
	if rgba.Bounds() != img.Bounds() {
		t.Errorf("annotation should preserve dimensions, got %v", rgba.Bounds())
	}

	// The button frame (10,10,100,50) in points lands at (20,20)-(220,120)
	// in pixels; the outline corner carries the box color.
	want := color.RGBA{R: 255, G: 0, B: 0, A: 100}
	if got := rgba.RGBAAt(20, 20); got != want {
		t.Errorf("corner pixel = %v, want %v", got, want)
	}
}

func TestAnnotateSnapshot_AllIncludesStaticElements(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 390, 844))
	snap := drawFixture()

	_, count := annotateSnapshot(img, snap, true, "")

	// Application root, button, and caption all have visible frames.
	if count != 3 {
		t.Errorf("annotated %d elements, want 3", count)
	}
}

func TestAnnotatable_SkipsZeroSizeFrames(t *testing.T) {
	snap := &model.Snapshot{Elements: []model.UIElement{
		{Role: "AXButton", Label: "Ghost"},
		{Role: "AXButton", Label: "Real", Frame: model.Rect{X: 1, Y: 1, Width: 10, Height: 10}},
	}}

	els := annotatable(snap, true, "")
	if len(els) != 1 || els[0].Label != "Real" {
		t.Errorf("annotatable(all) = %d elements, want only the one with a frame", len(els))
	}
}

func TestAnnotatable_FilterNarrowsByText(t *testing.T) {
	snap := drawFixture()

	els := annotatable(snap, true, "caption")
	if len(els) != 1 || els[0].Label != "Caption" {
		t.Fatalf("filter should keep only the caption, got %d elements", len(els))
	}
	if got := annotatable(snap, false, "caption"); len(got) != 0 {
		t.Errorf("caption is not interactive, expected no matches, got %d", len(got))
	}
}

func TestScaleImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 200))

	got := scaleImage(img, 0.5)

	b := got.Bounds()
	if b.Dx() != 50 || b.Dy() != 100 {
		t.Errorf("scaled dimensions = %dx%d, want 50x100", b.Dx(), b.Dy())
	}
}

func TestImageToRGBA_PreservesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 30, 40))
	src.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	rgba := imageToRGBA(src)

	if rgba.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", rgba.Bounds(), src.Bounds())
	}
	if got := rgba.RGBAAt(5, 5); got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("pixel not copied: %v", got)
	}
}

func TestDrawRectangle_ClampsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))

	// Extends past every edge; must not panic and must still draw the
	// visible portion.
	drawRectangle(img, -10, -10, 60, 60, color.RGBA{R: 255, A: 255})

	if got := img.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("clamped edge should be drawn, got %v", got)
	}
}

func TestScreenshotCommand_Flags(t *testing.T) {
	tests := []struct {
		name     string
		flagType string
	}{
		{"annotate", "bool"},
		{"all", "bool"},
		{"filter", "string"},
		{"scale", "float64"},
	}

	flags := screenshotCmd.Flags()
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}
