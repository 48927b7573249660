// Package window provides the analysis windows used by the spectrum stage.
//
// Distortion measurements run unwindowed (rectangular) for parity with
// archived reference results; Hann and Blackman-Harris are available for
// exploratory spectra.
package window

import "math"

// Type identifies a window function.
type Type int

// Supported window types.
const (
	TypeRectangular Type = iota + 1
	TypeHann
	TypeBlackmanHarris4Term
)

// Generate returns the window coefficients for the given type and length.
// Unknown types fall back to rectangular.
func Generate(t Type, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	switch t {
	case TypeHann:
		for i := range out {
			out[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
	case TypeBlackmanHarris4Term:
		const (
			a0 = 0.35875
			a1 = 0.48829
			a2 = 0.14128
			a3 = 0.01168
		)

		for i := range out {
			x := 2 * math.Pi * float64(i) / float64(n-1)
			out[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
		}
	default:
		for i := range out {
			out[i] = 1
		}
	}

	return out
}

// Apply returns a windowed copy of signal. Rectangular windows return a
// plain copy.
func Apply(t Type, signal []float64) []float64 {
	out := make([]float64, len(signal))
	if t == TypeRectangular || t == 0 {
		copy(out, signal)
		return out
	}

	coeffs := Generate(t, len(signal))
	for i, v := range signal {
		out[i] = v * coeffs[i]
	}

	return out
}
