// Package fractal computes escape-time data for the Mandelbrot set.
//
// The package has two layers:
//
//   - Evaluate: the escape-time evaluator for a single point c. It iterates
//     z ← z² + c from z = 0 and returns a smoothed (fractional) iteration count,
//     or exactly maxIter when the orbit did not escape.
//   - Sample: the grid sampler. It spreads Width × Height sample points evenly
//     over a Bounds rectangle of the complex plane and evaluates every point.
//
// # Axis Convention
//
// A Grid is indexed Values[i][j], where i is the column (x / real axis) and
// j is the row (y / imaginary axis). Row 0 is YMin, so when the grid is drawn
// as an image it has to be flipped vertically for y to increase upward.
//
// # Errors
//
// Invalid parameters are reported with ErrInvalidParameter before any work
// starts. Non-finite coordinates or orbit values are reported with
// ErrNumericAnomaly; when they happen inside Sample the error is a *PixelError
// naming the offending cell. A failing pixel fails the whole call.
//
// # Thread Safety
//
// Everything here is pure. Grids are created fresh per call and owned by the
// caller.
package fractal
