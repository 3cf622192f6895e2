package fractal

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Bounds is a rectangle of the complex plane.
type Bounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Validate checks that all edges are finite and both axes have positive extent.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite, got %+v", ErrInvalidParameter, b)
		}
	}
	if b.XMin >= b.XMax {
		return fmt.Errorf("%w: x_min (%g) must be < x_max (%g)", ErrInvalidParameter, b.XMin, b.XMax)
	}
	if b.YMin >= b.YMax {
		return fmt.Errorf("%w: y_min (%g) must be < y_max (%g)", ErrInvalidParameter, b.YMin, b.YMax)
	}
	return nil
}

// Params describes one sampling run.
type Params struct {
	Width   int
	Height  int
	Bounds  Bounds
	MaxIter int

	// Workers caps how many columns are evaluated at once. Values below 1
	// are treated as 1.
	Workers int
}

// Validate checks Params before any work starts.
func (p Params) Validate() error {
	if p.Width < 1 {
		return fmt.Errorf("%w: width must be >= 1, got %d", ErrInvalidParameter, p.Width)
	}
	if p.Height < 1 {
		return fmt.Errorf("%w: height must be >= 1, got %d", ErrInvalidParameter, p.Height)
	}
	if p.MaxIter < 1 {
		return fmt.Errorf("%w: max_iter must be >= 1, got %d", ErrInvalidParameter, p.MaxIter)
	}
	return p.Bounds.Validate()
}

// Grid holds the escape values of a sampling run.
//
// Values[i][j] belongs to the sample point complex(XS[i], YS[j]).
type Grid struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	MaxIter int         `json:"max_iter"`
	Bounds  Bounds      `json:"bounds"`
	XS      []float64   `json:"xs"`
	YS      []float64   `json:"ys"`
	Values  [][]float64 `json:"values"`
}

// At returns the value at column i, row j.
func (g *Grid) At(i, j int) float64 {
	return g.Values[i][j]
}

// Interior reports whether the cell at column i, row j did not escape.
func (g *Grid) Interior(i, j int) bool {
	return IsInterior(g.Values[i][j], g.MaxIter)
}

// PixelError identifies the cell whose evaluation failed.
type PixelError struct {
	Column int
	Row    int
	C      complex128
	Err    error
}

func (e *PixelError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) at %v: %v", e.Column, e.Row, e.C, e.Err)
}

func (e *PixelError) Unwrap() error {
	return e.Err
}

// Linspace returns n evenly spaced values over [start, stop].
//
// Both endpoints are included and the last value is exactly stop. A single
// sample is start.
func Linspace(start, stop float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Sample evaluates every point of a Width × Height grid spread over p.Bounds.
//
// Parameters are validated up front. Columns run on up to p.Workers
// goroutines; each column owns its slice of Values so no cell is written
// twice. The first failing pixel aborts the run and is returned as a
// *PixelError; no partial grid is returned.
func Sample(p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	xs := Linspace(p.Bounds.XMin, p.Bounds.XMax, p.Width)
	ys := Linspace(p.Bounds.YMin, p.Bounds.YMax, p.Height)

	values := make([][]float64, p.Width)
	for i := range values {
		values[i] = make([]float64, p.Height)
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := range xs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return sampleColumn(values[i], i, xs[i], ys, p.MaxIter)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Grid{
		Width:   p.Width,
		Height:  p.Height,
		MaxIter: p.MaxIter,
		Bounds:  p.Bounds,
		XS:      xs,
		YS:      ys,
		Values:  values,
	}, nil
}

func sampleColumn(column []float64, i int, x float64, ys []float64, maxIter int) error {
	for j, y := range ys {
		c := complex(x, y)
		v, err := Evaluate(c, maxIter)
		if err != nil {
			return &PixelError{Column: i, Row: j, C: c, Err: err}
		}
		column[j] = v
	}
	return nil
}
