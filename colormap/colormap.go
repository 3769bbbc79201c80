// Package colormap turns normalized height maps into RGBA colors.
package colormap

import (
	"github.com/lucasb-eyer/go-colorful"

	"the.quetzal.community/heightfield/heightfield"
)

// Color is an RGBA color with every channel in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB drops the alpha channel.
func (c Color) RGB() colorful.Color { return colorful.Color{R: c.R, G: c.G, B: c.B} }

// Opaque returns c with full alpha.
func Opaque(c colorful.Color) Color { return Color{R: c.R, G: c.G, B: c.B, A: 1} }

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// Gradient interpolates linearly from Low (height 0) to High (height 1).
type Gradient struct {
	Low, High Color
}

// Grayscale is the black to white gradient.
var Grayscale = Gradient{Low: Black, High: White}

// At returns Low + (High - Low) * clamp(h, 0, 1).
func (g Gradient) At(h float64) Color {
	h = clamp01(h)
	rgb := g.Low.RGB().BlendRgb(g.High.RGB(), h)
	return Color{
		R: rgb.R,
		G: rgb.G,
		B: rgb.B,
		A: g.Low.A + (g.High.A-g.Low.A)*h,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Map is a row-major grid of colors, Pixels[y*Width+x].
type Map struct {
	Width  int
	Height int
	Pixels []Color
}

// At returns the color at (x, y).
func (m Map) At(x, y int) Color { return m.Pixels[y*m.Width+x] }

// Apply colors every cell of a normalized height map.
func Apply(heights heightfield.Map, g Gradient) Map {
	out := Map{
		Width:  heights.Width,
		Height: heights.Height,
		Pixels: make([]Color, len(heights.Values)),
	}
	for i, h := range heights.Values {
		out.Pixels[i] = g.At(h)
	}
	return out
}
