package server

import (
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/ironsheep/mandelbrot-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

func integerProp(description string, def, minimum int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"default":     def,
		"minimum":     minimum,
	}
}

func regionNames() []string {
	regions := fractal.Landmarks()
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	boundsProps := map[string]interface{}{
		"x_min": numberProp("Left edge of the plane region (real part)"),
		"x_max": numberProp("Right edge of the plane region (real part)"),
		"y_min": numberProp("Bottom edge of the plane region (imaginary part)"),
		"y_max": numberProp("Top edge of the plane region (imaginary part)"),
	}

	return []Tool{
		// Point evaluation
		{
			Name:        "mandelbrot_evaluate",
			Description: "Compute the smoothed escape-time value of one point c = real + imag*i. Returns exactly max_iter for points that never escape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"real":     numberProp("Real part of c"),
					"imag":     numberProp("Imaginary part of c"),
					"max_iter": integerProp("Iteration bound (>= 1)", defaultMaxIter, 1),
				},
				"required": []string{"real", "imag"},
			},
		},

		// Grid sampling
		{
			Name:        "mandelbrot_sample",
			Description: "Evaluate a width x height grid of evenly spaced points over a plane region. values[i][j] belongs to (xs[i], ys[j]). Omit all bounds to sample the default view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(boundsProps, map[string]interface{}{
					"width":    integerProp("Number of samples along the real axis", defaultSampleSize, 1),
					"height":   integerProp("Number of samples along the imaginary axis", defaultSampleSize, 1),
					"max_iter": integerProp("Iteration bound (>= 1)", defaultMaxIter, 1),
				}),
			},
		},

		// View helpers
		{
			Name:        "mandelbrot_view_bounds",
			Description: "Convert a center and zoom into the plane bounds it covers. Both half extents are 1.5/zoom.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"center_x": numberProp("Real part of the view center. Default -0.5"),
					"center_y": numberProp("Imaginary part of the view center. Default 0"),
					"zoom":     numberProp("Zoom factor (> 0). Default 1"),
				},
			},
		},
		{
			Name:        "mandelbrot_regions",
			Description: "List the named landmark regions that mandelbrot_render accepts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Rendering
		{
			Name:        "mandelbrot_render",
			Description: "Render a region of the set as a base64-encoded PNG. The region is chosen by explicit bounds, a named landmark, or a center and zoom, in that order of precedence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(boundsProps, map[string]interface{}{
					"width":    integerProp("Grid width in samples", defaultSampleSize, 1),
					"height":   integerProp("Grid height in samples", defaultSampleSize, 1),
					"max_iter": integerProp("Iteration bound (>= 1)", defaultMaxIter, 1),
					"center_x": numberProp("Real part of the view center. Default -0.5"),
					"center_y": numberProp("Imaginary part of the view center. Default 0"),
					"zoom":     numberProp("Zoom factor (> 0). Default 1"),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named landmark region",
						"enum":        regionNames(),
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Colour scale for escaped points",
						"enum":        imaging.PaletteNames(),
					},
					"interior_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for points inside the set",
					},
					"scale": numberProp("Output scale factor (e.g., 2.0 to double size). Default 1.0"),
					"axes":  integerProp("Number of labelled coordinate divisions per axis, 0 for none", 0, 0),
					"axes_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for coordinate lines, with optional alpha",
						"default":     imaging.DefaultAxesColor,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to also save the PNG to",
					},
				}),
			},
		},
		{
			Name:        "mandelbrot_color",
			Description: "Return the colour an escape value is painted with for a given palette and iteration bound.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"value":    numberProp("Escape value as returned by mandelbrot_evaluate"),
					"max_iter": integerProp("Iteration bound the value was computed with", defaultMaxIter, 1),
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Colour scale for escaped points",
						"enum":        imaging.PaletteNames(),
					},
					"interior_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for points inside the set",
					},
				},
				"required": []string{"value"},
			},
		},
	}
}

func merge(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
