package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
)

// RenderOptions controls how a grid is turned into a picture.
type RenderOptions struct {
	// Scale resizes the output. 0 means 1 (no resize).
	Scale float64

	// Axes draws coordinate lines with this many divisions per axis. 0 disables them.
	Axes int

	// AxesColor is the hex colour of the coordinate lines.
	AxesColor string

	// OutputPath, when set, also writes the PNG to disk.
	OutputPath string
}

// RenderResult contains a rendered view of the set.
type RenderResult struct {
	Width              int            `json:"width"`
	Height             int            `json:"height"`
	ImageBase64        string         `json:"image_base64"`
	MimeType           string         `json:"mime_type"`
	Bounds             fractal.Bounds `json:"bounds"`
	MaxIter            int            `json:"max_iter"`
	Palette            string         `json:"palette"`
	InteriorPixels     int            `json:"interior_pixels"`
	ComputationSeconds float64        `json:"computation_seconds"`
	SavedPath          string         `json:"saved_path,omitempty"`
}

// Image colours a grid and returns it oriented for display.
//
// Column i of the image is grid column i. Grid row 0 is YMin, so the image is
// flipped vertically to put increasing y at the top.
func Image(grid *fractal.Grid, cm *Colormap) *image.NRGBA {
	raw := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for i, col := range grid.Values {
		for j, v := range col {
			raw.SetNRGBA(i, j, cm.At(v))
		}
	}
	return imaging.FlipV(raw)
}

// Render colours grid with cm, applies opts and encodes the result as PNG.
//
// The returned ComputationSeconds is zero; callers that time the sampling
// step fill it in.
func Render(grid *fractal.Grid, cm *Colormap, opts RenderOptions) (*RenderResult, error) {
	if grid == nil || cm == nil {
		return nil, fmt.Errorf("%w: grid and colormap are required", fractal.ErrInvalidParameter)
	}
	if grid.MaxIter != cm.MaxIter() {
		return nil, fmt.Errorf("%w: colormap built for max_iter %d, grid has %d",
			fractal.ErrInvalidParameter, cm.MaxIter(), grid.MaxIter)
	}

	var img image.Image = Image(grid, cm)

	if opts.Scale != 0 && opts.Scale != 1 {
		w, h, err := ScaledSize(grid.Width, grid.Height, opts.Scale)
		if err != nil {
			return nil, err
		}
		img = transform.Resize(img, w, h, transform.Linear)
	}

	if opts.Axes > 0 {
		img = AxesOverlay(img, grid.Bounds, opts.Axes, opts.AxesColor)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	result := &RenderResult{
		Width:          img.Bounds().Dx(),
		Height:         img.Bounds().Dy(),
		ImageBase64:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:       "image/png",
		Bounds:         grid.Bounds,
		MaxIter:        grid.MaxIter,
		Palette:        cm.PaletteName(),
		InteriorPixels: countInterior(grid),
	}

	if opts.OutputPath != "" {
		if err := imgio.Save(opts.OutputPath, img, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		result.SavedPath = opts.OutputPath
	}

	return result, nil
}

// MaxScaledSide is the largest output width or height a scale may produce.
const MaxScaledSide = math.MaxInt32

// ScaledSize returns the output size for a scale factor, never below 1x1.
// The scale must be positive and finite, and neither side may exceed
// MaxScaledSide.
func ScaledSize(width, height int, scale float64) (int, int, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return 0, 0, fmt.Errorf("%w: scale must be a positive number, got %g", fractal.ErrInvalidParameter, scale)
	}
	// checked as floats: int() of an out-of-range float is undefined
	fw := math.Round(float64(width) * scale)
	fh := math.Round(float64(height) * scale)
	if fw > MaxScaledSide || fh > MaxScaledSide {
		return 0, 0, fmt.Errorf("%w: scale %g turns %dx%d into %.0fx%.0f", fractal.ErrInvalidParameter, scale, width, height, fw, fh)
	}
	return max(int(fw), 1), max(int(fh), 1), nil
}

func countInterior(grid *fractal.Grid) int {
	n := 0
	for i := range grid.Values {
		for j := range grid.Values[i] {
			if grid.Interior(i, j) {
				n++
			}
		}
	}
	return n
}
