// Package imaging turns escape-time grids into pictures.
//
// This package maps the values produced by the fractal package to colours and
// encodes the result as PNG. It owns everything between a *fractal.Grid and
// the bytes handed to an MCP client or written to disk.
//
// # Colouring
//
// A Palette is a continuous colour scale over [0, 1] (viridis, magma, inferno,
// plasma, grayscale). A Colormap samples a palette into maxIter entries and
// adds one fixed colour for interior points, the cells whose value equals the
// iteration bound. Interior points are black by default.
//
// # Orientation
//
// Grids are indexed Values[i][j] with j increasing with the imaginary part.
// Images are indexed with y increasing downward, so Image flips the grid
// vertically: the top image row shows YMax and the bottom row YMin. Column 0
// is always XMin.
//
// # Output
//
// Rendered images are returned as base64 PNG inside a RenderResult, together
// with the bounds, iteration bound, palette and interior pixel count. Output
// can optionally be resized and overlaid with labelled coordinate lines.
//
// # Error Handling
//
// Invalid options (unknown palette, bad colour, non-positive scale) wrap
// fractal.ErrInvalidParameter so callers can classify them with errors.Is.
package imaging
