package fractal

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// EscapeRadius is the modulus an orbit has to exceed to count as escaped.
// An orbit sitting exactly on the radius keeps iterating.
const EscapeRadius = 2.0

var (
	// ErrInvalidParameter reports parameters that can never produce a result,
	// such as a non-positive size or a degenerate bounding box.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericAnomaly reports a non-finite coordinate or orbit value.
	ErrNumericAnomaly = errors.New("numeric anomaly")
)

// Evaluate returns the smoothed escape count of c.
//
// The orbit of 0 under z ← z² + c is iterated until |z| > 2 or maxIter
// iterations have run. If the orbit is still within the escape radius when
// the bound is reached, the point is treated as inside the set and exactly
// float64(maxIter) is returned. Otherwise the result is
//
//	n + 1 - ln(log2(|z|))
//
// where n is the number of iterations performed and z the first orbit value
// outside the escape radius. Orbits that escape before the last iteration
// yield values below maxIter.
func Evaluate(c complex128, maxIter int) (float64, error) {
	if maxIter < 1 {
		return 0, fmt.Errorf("%w: max_iter must be >= 1, got %d", ErrInvalidParameter, maxIter)
	}
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		return 0, fmt.Errorf("%w: coordinate %v is not finite", ErrNumericAnomaly, c)
	}

	var z complex128
	n := 0
	for cmplx.Abs(z) <= EscapeRadius && n < maxIter {
		z = z*z + c
		n++
	}

	if cmplx.Abs(z) <= EscapeRadius {
		return float64(maxIter), nil
	}

	v, err := smooth(n, z)
	if err != nil {
		return 0, err
	}
	return offSentinel(v, maxIter), nil
}

// offSentinel moves an escaped value that landed exactly on maxIter to the
// next float above it. Orbits escaping on the last allowed iteration can
// smooth to maxIter or slightly more.
func offSentinel(v float64, maxIter int) float64 {
	if v == float64(maxIter) {
		return math.Nextafter(v, math.Inf(1))
	}
	return v
}

// smooth applies the logarithmic correction to an escaped orbit.
func smooth(n int, z complex128) (float64, error) {
	modulus := cmplx.Abs(z)
	if math.IsInf(modulus, 0) || math.IsNaN(modulus) {
		return 0, fmt.Errorf("%w: orbit diverged to %v after %d iterations", ErrNumericAnomaly, z, n)
	}
	// log(log2(x)) is undefined for x <= 1
	if modulus <= 1 {
		return 0, fmt.Errorf("%w: escaped modulus %g is not above 1", ErrNumericAnomaly, modulus)
	}

	v := float64(n) + 1 - math.Log(math.Log2(modulus))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: smoothed count for modulus %g is not finite", ErrNumericAnomaly, modulus)
	}
	return v, nil
}

// IsInterior reports whether v is the interior sentinel for maxIter.
func IsInterior(v float64, maxIter int) bool {
	return v == float64(maxIter)
}
