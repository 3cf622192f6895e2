package fractal

import (
	"fmt"
	"math"
	"sort"
)

// ViewHalfExtent is the half width and half height of the plane region shown
// at zoom 1.
const ViewHalfExtent = 1.5

// View is a square window onto the plane described by a center and a zoom.
type View struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Zoom    float64 `json:"zoom"`
}

// DefaultView frames the whole set.
var DefaultView = View{CenterX: -0.5, CenterY: 0, Zoom: 1}

// ViewBounds converts a view into the bounding box it covers.
//
// Both half extents are 1.5/zoom, so the box is always square in plane units
// regardless of the pixel aspect ratio.
func ViewBounds(v View) (Bounds, error) {
	if math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) || v.Zoom <= 0 {
		return Bounds{}, fmt.Errorf("%w: zoom must be a positive finite number, got %g", ErrInvalidParameter, v.Zoom)
	}
	if math.IsNaN(v.CenterX) || math.IsInf(v.CenterX, 0) || math.IsNaN(v.CenterY) || math.IsInf(v.CenterY, 0) {
		return Bounds{}, fmt.Errorf("%w: center (%g,%g) is not finite", ErrInvalidParameter, v.CenterX, v.CenterY)
	}

	half := ViewHalfExtent / v.Zoom
	b := Bounds{
		XMin: v.CenterX - half,
		XMax: v.CenterX + half,
		YMin: v.CenterY - half,
		YMax: v.CenterY + half,
	}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// Region is a named landmark of the set.
type Region struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Bounds      Bounds `json:"bounds"`
}

var landmarks = map[string]Region{
	"full": {
		Name:        "full",
		Description: "The whole set at zoom 1",
		Bounds:      Bounds{XMin: -2.0, XMax: 1.0, YMin: -1.5, YMax: 1.5},
	},
	"seahorse-valley": {
		Name:        "seahorse-valley",
		Description: "Dense filaments and repeating seahorse curls",
		Bounds:      Bounds{XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15},
	},
	"elephant-valley": {
		Name:        "elephant-valley",
		Description: "Large bulb with trunk-like tendrils",
		Bounds:      Bounds{XMin: -1.85, XMax: -1.75, YMin: -0.10, YMax: -0.02},
	},
	"spiral-minibrot": {
		Name:        "spiral-minibrot",
		Description: "Small copy of the set with tight spiral arms",
		Bounds:      Bounds{XMin: -0.7435, XMax: -0.7420, YMin: 0.1310, YMax: 0.1325},
	},
	"triple-spiral": {
		Name:        "triple-spiral",
		Description: "Threefold symmetric spiral structure",
		Bounds:      Bounds{XMin: -0.7480, XMax: -0.7450, YMin: 0.0950, YMax: 0.0980},
	},
	"valley-of-the-dragon": {
		Name:        "valley-of-the-dragon",
		Description: "Deep, highly detailed spiral filaments",
		Bounds:      Bounds{XMin: -0.7400, XMax: -0.7350, YMin: 0.1800, YMax: 0.1850},
	},
	"minibrot-in-mini-spiral": {
		Name:        "minibrot-in-mini-spiral",
		Description: "Self-similar copy inside a spiral arm",
		Bounds:      Bounds{XMin: -1.7390, XMax: -1.7375, YMin: -0.0235, YMax: -0.0220},
	},
}

// Landmark returns the named region.
func Landmark(name string) (Region, error) {
	r, ok := landmarks[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: unknown region %q", ErrInvalidParameter, name)
	}
	return r, nil
}

// Landmarks returns all named regions sorted by name.
func Landmarks() []Region {
	out := make([]Region, 0, len(landmarks))
	for _, r := range landmarks {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
