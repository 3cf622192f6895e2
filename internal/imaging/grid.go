package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
)

// DefaultAxesColor is a semi-transparent white.
const DefaultAxesColor = "#FFFFFF80"

// AxesOverlay draws evenly spaced coordinate lines over a rendered view.
//
// The plane is split into divisions parts on each axis. Vertical lines are
// labelled with their real coordinate along the bottom edge, horizontal lines
// with their imaginary coordinate along the left edge. The image is assumed
// to be oriented for display (y increasing upward).
func AxesOverlay(img image.Image, b fractal.Bounds, divisions int, colorHex string) *image.NRGBA {
	result := imaging.Clone(img)
	if divisions < 1 {
		return result
	}

	bounds := result.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = color.RGBA{128, 128, 128, 128}
	}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	dx := (b.XMax - b.XMin) / float64(divisions)
	dy := (b.YMax - b.YMin) / float64(divisions)

	for k := 0; k <= divisions; k++ {
		px := int(math.Round(float64(k) * float64(width-1) / float64(divisions)))
		blendLine(result, image.Rect(px, 0, px+1, height), lineColor)
		label := formatCoordinate(b.XMin + float64(k)*dx)
		lx := px + 2
		if lx+labelWidth(label) > width {
			lx = px - labelWidth(label) - 1
		}
		drawLabel(result, lx, height-8, label, labelColor, bgColor)
	}

	for k := 0; k <= divisions; k++ {
		py := height - 1 - int(math.Round(float64(k)*float64(height-1)/float64(divisions)))
		blendLine(result, image.Rect(0, py, width, py+1), lineColor)
		label := formatCoordinate(b.YMin + float64(k)*dy)
		ly := py + 2
		if ly+7 > height {
			ly = py - 8
		}
		drawLabel(result, 2, ly, label, labelColor, bgColor)
	}

	return result
}

func blendLine(img *image.NRGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func formatCoordinate(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// colorful.Hex has no form with alpha digits.
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	// color.RGBA is alpha-premultiplied
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}, nil
}

const charWidth = 4

func labelWidth(text string) int {
	return len(text) * charWidth
}

// 3x5 pixel glyphs for the characters strconv produces for a float
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'-': {"000", "000", "111", "000", "000"},
	'+': {"000", "010", "111", "010", "000"},
	'.': {"000", "000", "000", "000", "010"},
	'e': {"000", "111", "111", "100", "111"},
}

// drawLabel draws a simple text label at the given position
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	labelHeight := 7

	bgRect := image.Rect(x-1, y-1, x+labelWidth(text), y+labelHeight)
	draw.Draw(img, bgRect.Intersect(bounds), image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
