package imaging

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultInteriorColor is the colour of points that did not escape.
const DefaultInteriorColor = "#000000"

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult describes the colour an escape value maps to.
//
// The same colour is given in several representations:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components without alpha
//   - RGBA: 8-bit components with alpha (always opaque)
//   - HSL: Perceptual color space for intuitive color operations
type ColorResult struct {
	Value    float64   `json:"value"`
	Interior bool      `json:"interior"`
	Index    int       `json:"index"` // Colormap entry, -1 for the interior colour
	Hex      string    `json:"hex"`   // Hex format "#RRGGBB"
	RGB      RGBColor  `json:"rgb"`
	RGBA     RGBAColor `json:"rgba"`
	HSL      HSLColor  `json:"hsl"`
}

// Colormap maps escape values to colours.
//
// It is a listed colormap: maxIter entries sampled from a Palette at evenly
// spaced positions over [0, 1], plus one fixed colour for the interior
// sentinel. Escaped values are scaled by maxIter, so a value v selects entry
// floor(v) clamped to the table. Colours therefore depend on the iteration
// bound and not on the spread of a particular grid.
type Colormap struct {
	palette  Palette
	maxIter  int
	entries  []color.NRGBA
	interior color.NRGBA
}

// NewColormap builds the colour table for maxIter.
func NewColormap(p Palette, maxIter int, interior colorful.Color) (*Colormap, error) {
	if maxIter < 1 {
		return nil, fmt.Errorf("%w: max_iter must be >= 1, got %d", fractal.ErrInvalidParameter, maxIter)
	}
	if len(p.stops) == 0 {
		return nil, fmt.Errorf("%w: palette has no colours", fractal.ErrInvalidParameter)
	}

	positions := fractal.Linspace(0, 1, maxIter)
	entries := make([]color.NRGBA, maxIter)
	for i, t := range positions {
		entries[i] = toNRGBA(p.At(t))
	}

	return &Colormap{
		palette:  p,
		maxIter:  maxIter,
		entries:  entries,
		interior: toNRGBA(interior.Clamped()),
	}, nil
}

// MaxIter returns the iteration bound the table was built for.
func (m *Colormap) MaxIter() int {
	return m.maxIter
}

// PaletteName returns the name of the underlying palette.
func (m *Colormap) PaletteName() string {
	return m.palette.Name
}

// index returns the table entry for v, or -1 for the interior sentinel.
func (m *Colormap) index(v float64) int {
	if fractal.IsInterior(v, m.maxIter) {
		return -1
	}
	if !(v > 0) {
		return 0
	}
	if v >= float64(m.maxIter-1) {
		return m.maxIter - 1
	}
	return int(v)
}

// At returns the colour for escape value v.
func (m *Colormap) At(v float64) color.NRGBA {
	idx := m.index(v)
	if idx < 0 {
		return m.interior
	}
	return m.entries[idx]
}

// ColorFor describes the colour for escape value v.
func (m *Colormap) ColorFor(v float64) *ColorResult {
	idx := m.index(v)
	c := m.At(v)
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ColorResult{
		Value:    v,
		Interior: idx < 0,
		Index:    idx,
		Hex:      fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGB:      RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA:     RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:      HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
