package imaging

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the colour scale used when none is requested.
const DefaultPalette = "viridis"

// paletteStops are evenly spaced samples of each colour scale, from t=0 to t=1.
var paletteStops = map[string][]string{
	"viridis":   {"#440154", "#472c7a", "#3b518b", "#2c718e", "#21908d", "#27ad81", "#5cc863", "#aadc32", "#fde725"},
	"magma":     {"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a", "#e55964", "#fb8761", "#fec287", "#fcfdbf"},
	"inferno":   {"#000004", "#1f0c48", "#550f6d", "#88226a", "#ba3655", "#e35933", "#f98c0a", "#f9c932", "#fcffa4"},
	"plasma":    {"#0d0887", "#4c02a1", "#7e03a8", "#a92395", "#cc4778", "#e56b5d", "#f89441", "#fdc328", "#f0f921"},
	"grayscale": {"#000000", "#ffffff"},
}

// Palette is a continuous colour scale over [0, 1].
//
// Adjacent stops are blended in CIE-L*a*b*, which keeps the perceptual
// spacing of the sampled scales.
type Palette struct {
	Name  string
	stops []colorful.Color
}

// LookupPalette returns the named palette.
func LookupPalette(name string) (Palette, error) {
	hexes, ok := paletteStops[name]
	if !ok {
		return Palette{}, fmt.Errorf("%w: unknown palette %q (available: %v)", fractal.ErrInvalidParameter, name, PaletteNames())
	}

	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q stop %d: %w", name, i, err)
		}
		stops[i] = c
	}
	return Palette{Name: name, stops: stops}, nil
}

// PaletteNames lists the available palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(paletteStops))
	for name := range paletteStops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At returns the palette colour at t. t is clamped to [0, 1].
func (p Palette) At(t float64) colorful.Color {
	if !(t > 0) {
		return p.stops[0]
	}
	if t >= 1 {
		return p.stops[len(p.stops)-1]
	}

	pos := t * float64(len(p.stops)-1)
	k := int(math.Floor(pos))
	frac := pos - float64(k)
	if frac == 0 {
		return p.stops[k]
	}
	return p.stops[k].BlendLab(p.stops[k+1], frac).Clamped()
}

// ParseColor parses "#RGB" or "#RRGGBB" into a colour.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: invalid colour %q: %v", fractal.ErrInvalidParameter, hex, err)
	}
	return c, nil
}
