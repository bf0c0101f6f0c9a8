package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/simkit/sim-cli/internal/model"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// annotateSnapshot draws a bounding box and center coordinates onto the
// image for each element of the snapshot. Element frames are in logical
// points; the point→pixel ratio comes from the image dimensions against
// the screen size probed from the snapshot, which absorbs both Retina
// density and any --scale shrink applied before annotation. The labels
// are the point coordinates a tap command takes, not pixels. A non-empty
// filter restricts the boxes to elements whose text matches it.
func annotateSnapshot(img image.Image, snap *model.Snapshot, all bool, filter string) (*image.RGBA, int) {
	rgba := imageToRGBA(img)

	screenW, screenH := snap.ScreenSize()
	scaleX := float64(img.Bounds().Dx()) / screenW
	scaleY := float64(img.Bounds().Dy()) / screenH

	boxColor := color.RGBA{R: 255, G: 0, B: 0, A: 100}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}

	elements := annotatable(snap, all, filter)
	for _, el := range elements {
		drawElementBox(rgba, el, scaleX, scaleY, boxColor, textColor, outlineColor)
	}
	return rgba, len(elements)
}

// imageToRGBA converts any image to a drawable RGBA copy.
func imageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// scaleImage resizes the image by factor using bilinear interpolation.
func scaleImage(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// drawElementBox draws one element's bounding box with its tap point
// labelled at the center.
func drawElementBox(img *image.RGBA, el *model.UIElement, scaleX, scaleY float64, boxColor, textColor, outlineColor color.Color) {
	x := int(el.Frame.X * scaleX)
	y := int(el.Frame.Y * scaleY)
	w := int(el.Frame.Width * scaleX)
	h := int(el.Frame.Height * scaleY)

	drawRectangle(img, x, y, x+w, y+h, boxColor)

	c := el.Center()
	label := fmt.Sprintf("(%.0f,%.0f)", c.X, c.Y)
	drawTextWithOutline(img, label, x+w/2, y+h/2, textColor, outlineColor)
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	// Clamp to image bounds
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}

	if x2 <= x1 || y2 <= y1 {
		return // Empty rectangle
	}

	// Top and bottom edges
	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}

	// Left and right edges
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text with an outline for visibility against
// arbitrary screen content.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13: ~7px per character, 13px tall. Center on (x, y).
	textWidth := len(text) * 7
	textHeight := 13
	offsetX := x - textWidth/2
	offsetY := y - textHeight/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot: fixed.Point26_6{
					X: fixed.Int26_6((offsetX + dx) * 64),
					Y: fixed.Int26_6((offsetY + dy) * 64),
				},
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(offsetX * 64),
			Y: fixed.Int26_6(offsetY * 64),
		},
	}
	d.DrawString(text)
}
