package server

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/ironsheep/mandelbrot-mcp/internal/imaging"
)

// Defaults applied to omitted tool arguments.
const (
	defaultMaxIter    = 100
	defaultSampleSize = 600
)

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "mandelbrot_evaluate":
		return s.handleEvaluate(args)
	case "mandelbrot_sample":
		return s.handleSample(args)
	case "mandelbrot_view_bounds":
		return s.handleViewBounds(args)
	case "mandelbrot_regions":
		return &RegionsResult{Regions: fractal.Landmarks()}, nil
	case "mandelbrot_render":
		return s.handleRender(args)
	case "mandelbrot_color":
		return s.handleColor(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", fractal.ErrInvalidParameter, name)
	}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", fractal.ErrInvalidParameter, err)
	}
	return nil
}

// intOr returns *p, or def when the argument was omitted. Integer arguments
// are decoded into pointers so an explicit 0 reaches validation instead of
// turning into the default.
func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// checkLimits enforces the configured pixel and iteration budgets.
func (s *Server) checkLimits(width, height, maxIter int) error {
	if width > 0 && height > 0 && width > s.cfg.MaxPixels/height {
		return fmt.Errorf("%w: %dx%d exceeds the pixel budget of %d", fractal.ErrInvalidParameter, width, height, s.cfg.MaxPixels)
	}
	if maxIter > s.cfg.MaxIter {
		return fmt.Errorf("%w: max_iter %d exceeds the limit of %d", fractal.ErrInvalidParameter, maxIter, s.cfg.MaxIter)
	}
	return nil
}

// === Point Evaluation ===

type evaluateArgs struct {
	Real    float64 `json:"real"`
	Imag    float64 `json:"imag"`
	MaxIter *int    `json:"max_iter"`
}

// EvaluateResult is the escape value of a single point.
type EvaluateResult struct {
	Real     float64 `json:"real"`
	Imag     float64 `json:"imag"`
	MaxIter  int     `json:"max_iter"`
	Value    float64 `json:"value"`
	Interior bool    `json:"interior"`
}

func (s *Server) handleEvaluate(args json.RawMessage) (interface{}, error) {
	var a evaluateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	maxIter := intOr(a.MaxIter, defaultMaxIter)
	if err := s.checkLimits(1, 1, maxIter); err != nil {
		return nil, err
	}

	v, err := fractal.Evaluate(complex(a.Real, a.Imag), maxIter)
	if err != nil {
		return nil, err
	}
	return &EvaluateResult{
		Real:     a.Real,
		Imag:     a.Imag,
		MaxIter:  maxIter,
		Value:    v,
		Interior: fractal.IsInterior(v, maxIter),
	}, nil
}

// === Grid Sampling ===

// boundsArgs holds optional explicit bounds. They must be given all together.
type boundsArgs struct {
	XMin *float64 `json:"x_min"`
	XMax *float64 `json:"x_max"`
	YMin *float64 `json:"y_min"`
	YMax *float64 `json:"y_max"`
}

// resolve returns the explicit bounds and whether any were given.
func (b boundsArgs) resolve() (fractal.Bounds, bool, error) {
	given := 0
	for _, p := range []*float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if p != nil {
			given++
		}
	}
	switch given {
	case 0:
		return fractal.Bounds{}, false, nil
	case 4:
		return fractal.Bounds{XMin: *b.XMin, XMax: *b.XMax, YMin: *b.YMin, YMax: *b.YMax}, true, nil
	default:
		return fractal.Bounds{}, false, fmt.Errorf("%w: x_min, x_max, y_min and y_max must be given together", fractal.ErrInvalidParameter)
	}
}

type sampleArgs struct {
	boundsArgs
	Width   *int `json:"width"`
	Height  *int `json:"height"`
	MaxIter *int `json:"max_iter"`
}

// SampleResult is a sampled grid plus the time spent computing it.
type SampleResult struct {
	*fractal.Grid
	ComputationSeconds float64 `json:"computation_seconds"`
}

func (s *Server) handleSample(args json.RawMessage) (interface{}, error) {
	var a sampleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	width := intOr(a.Width, defaultSampleSize)
	height := intOr(a.Height, defaultSampleSize)
	maxIter := intOr(a.MaxIter, defaultMaxIter)

	b, ok, err := a.boundsArgs.resolve()
	if err != nil {
		return nil, err
	}
	if !ok {
		if b, err = fractal.ViewBounds(fractal.DefaultView); err != nil {
			return nil, err
		}
	}

	grid, elapsed, err := s.sample(width, height, b, maxIter)
	if err != nil {
		return nil, err
	}
	return &SampleResult{Grid: grid, ComputationSeconds: elapsed.Seconds()}, nil
}

// sample checks the budgets and runs the grid sampler, timing it.
func (s *Server) sample(width, height int, b fractal.Bounds, maxIter int) (*fractal.Grid, time.Duration, error) {
	if err := s.checkLimits(width, height, maxIter); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	grid, err := fractal.Sample(fractal.Params{
		Width:   width,
		Height:  height,
		Bounds:  b,
		MaxIter: maxIter,
		Workers: s.cfg.Workers,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, err
	}
	if s.cfg.Debug() {
		log.Printf("sampled %dx%d at max_iter %d over %+v in %v", width, height, maxIter, b, elapsed)
	}
	return grid, elapsed, nil
}

// === View Helpers ===

type viewArgs struct {
	CenterX *float64 `json:"center_x"`
	CenterY *float64 `json:"center_y"`
	Zoom    *float64 `json:"zoom"`
}

// view fills omitted fields from fractal.DefaultView.
func (a viewArgs) view() fractal.View {
	v := fractal.DefaultView
	if a.CenterX != nil {
		v.CenterX = *a.CenterX
	}
	if a.CenterY != nil {
		v.CenterY = *a.CenterY
	}
	if a.Zoom != nil {
		v.Zoom = *a.Zoom
	}
	return v
}

// ViewBoundsResult pairs a view with the bounds it covers.
type ViewBoundsResult struct {
	View   fractal.View   `json:"view"`
	Bounds fractal.Bounds `json:"bounds"`
}

func (s *Server) handleViewBounds(args json.RawMessage) (interface{}, error) {
	var a viewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v := a.view()
	b, err := fractal.ViewBounds(v)
	if err != nil {
		return nil, err
	}
	return &ViewBoundsResult{View: v, Bounds: b}, nil
}

// RegionsResult lists the named landmark regions.
type RegionsResult struct {
	Regions []fractal.Region `json:"regions"`
}

// === Rendering ===

// RenderRequest describes one render. Width, Height and MaxIter must be
// positive. Empty palette and colour fields take the server defaults.
//
// The plane region comes from Bounds when set, otherwise from Region when
// set, otherwise from View, and fractal.DefaultView when View is nil.
type RenderRequest struct {
	Width         int
	Height        int
	MaxIter       int
	View          *fractal.View
	Region        string
	Bounds        *fractal.Bounds
	Palette       string
	InteriorColor string
	Options       imaging.RenderOptions
}

// Render samples and colours the requested region.
func (s *Server) Render(r RenderRequest) (*imaging.RenderResult, error) {
	if r.Width < 1 || r.Height < 1 {
		return nil, fmt.Errorf("%w: width and height must be >= 1, got %dx%d", fractal.ErrInvalidParameter, r.Width, r.Height)
	}
	if r.MaxIter < 1 {
		return nil, fmt.Errorf("%w: max_iter must be >= 1, got %d", fractal.ErrInvalidParameter, r.MaxIter)
	}
	view := fractal.DefaultView
	if r.View != nil {
		view = *r.View
	}
	if r.Palette == "" {
		r.Palette = s.cfg.Palette
	}
	if r.InteriorColor == "" {
		r.InteriorColor = s.cfg.InteriorColor
	}
	if r.Options.AxesColor == "" {
		r.Options.AxesColor = imaging.DefaultAxesColor
	}
	if r.Options.OutputPath != "" && s.cfg.OutputDir != "" && !filepath.IsAbs(r.Options.OutputPath) {
		r.Options.OutputPath = filepath.Join(s.cfg.OutputDir, r.Options.OutputPath)
	}

	var b fractal.Bounds
	switch {
	case r.Bounds != nil:
		b = *r.Bounds
	case r.Region != "":
		region, err := fractal.Landmark(r.Region)
		if err != nil {
			return nil, err
		}
		b = region.Bounds
	default:
		var err error
		if b, err = fractal.ViewBounds(view); err != nil {
			return nil, err
		}
	}

	outW, outH := r.Width, r.Height
	if r.Options.Scale != 0 {
		var err error
		if outW, outH, err = imaging.ScaledSize(r.Width, r.Height, r.Options.Scale); err != nil {
			return nil, err
		}
	}
	if err := s.checkLimits(outW, outH, r.MaxIter); err != nil {
		return nil, err
	}

	palette, err := imaging.LookupPalette(r.Palette)
	if err != nil {
		return nil, err
	}
	interior, err := imaging.ParseColor(r.InteriorColor)
	if err != nil {
		return nil, err
	}

	grid, elapsed, err := s.sample(r.Width, r.Height, b, r.MaxIter)
	if err != nil {
		return nil, err
	}

	cm, err := imaging.NewColormap(palette, r.MaxIter, interior)
	if err != nil {
		return nil, err
	}
	result, err := imaging.Render(grid, cm, r.Options)
	if err != nil {
		return nil, err
	}
	result.ComputationSeconds = elapsed.Seconds()
	return result, nil
}

type renderArgs struct {
	boundsArgs
	viewArgs
	Width         *int    `json:"width"`
	Height        *int    `json:"height"`
	MaxIter       *int    `json:"max_iter"`
	Region        string  `json:"region"`
	Palette       string  `json:"palette"`
	InteriorColor string  `json:"interior_color"`
	Scale         float64 `json:"scale"`
	Axes          int     `json:"axes"`
	AxesColor     string  `json:"axes_color"`
	OutputPath    string  `json:"output_path"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	b, ok, err := a.boundsArgs.resolve()
	if err != nil {
		return nil, err
	}
	view := a.viewArgs.view()
	req := RenderRequest{
		Width:         intOr(a.Width, defaultSampleSize),
		Height:        intOr(a.Height, defaultSampleSize),
		MaxIter:       intOr(a.MaxIter, defaultMaxIter),
		View:          &view,
		Region:        a.Region,
		Palette:       a.Palette,
		InteriorColor: a.InteriorColor,
		Options: imaging.RenderOptions{
			Scale:      a.Scale,
			Axes:       a.Axes,
			AxesColor:  a.AxesColor,
			OutputPath: a.OutputPath,
		},
	}
	if ok {
		req.Bounds = &b
	}
	return s.Render(req)
}

// === Colour Lookup ===

type colorArgs struct {
	Value         float64 `json:"value"`
	MaxIter       *int    `json:"max_iter"`
	Palette       string  `json:"palette"`
	InteriorColor string  `json:"interior_color"`
}

func (s *Server) handleColor(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	maxIter := intOr(a.MaxIter, defaultMaxIter)
	if a.Palette == "" {
		a.Palette = s.cfg.Palette
	}
	if a.InteriorColor == "" {
		a.InteriorColor = s.cfg.InteriorColor
	}
	if err := s.checkLimits(1, 1, maxIter); err != nil {
		return nil, err
	}

	palette, err := imaging.LookupPalette(a.Palette)
	if err != nil {
		return nil, err
	}
	interior, err := imaging.ParseColor(a.InteriorColor)
	if err != nil {
		return nil, err
	}
	cm, err := imaging.NewColormap(palette, maxIter, interior)
	if err != nil {
		return nil, err
	}
	return cm.ColorFor(a.Value), nil
}
