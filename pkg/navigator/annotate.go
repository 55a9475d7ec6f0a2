package navigator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// annotationGreen is the overlay color for boxes and captions.
var annotationGreen = color.RGBA{G: 255, A: 255}

const rectThickness = 2

// cloneRGBA copies src into a mutable RGBA frame for annotation.
func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// drawRect draws a rectangle outline of the given thickness. Pixels
// outside the frame are clipped by the image itself.
func drawRect(img *image.RGBA, r image.Rectangle, thickness int, c color.Color) {
	for t := 0; t < thickness; t++ {
		x0, y0 := r.Min.X+t, r.Min.Y+t
		x1, y1 := r.Max.X-1-t, r.Max.Y-1-t
		if x1 < x0 || y1 < y0 {
			return
		}
		for x := x0; x <= x1; x++ {
			img.Set(x, y0, c)
			img.Set(x, y1, c)
		}
		for y := y0; y <= y1; y++ {
			img.Set(x0, y, c)
			img.Set(x1, y, c)
		}
	}
}

// drawText renders s with the fixed 7x13 face, baseline at (x, y).
func drawText(img *image.RGBA, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// labelText builds the overlay caption: "Person - 97 cm" when a
// distance estimate exists, the bare label otherwise.
func labelText(label string, distanceCM float64, haveDistance bool) string {
	if !haveDistance {
		return label
	}
	return fmt.Sprintf("%s - %.0f cm", label, distanceCM)
}
