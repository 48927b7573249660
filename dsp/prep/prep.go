// Package prep conditions raw sample sequences for spectral analysis.
//
// Preparation truncates a signal to the largest power-of-two length that
// fits and removes its DC offset, so downstream FFT stages see a
// zero-mean, radix-2-friendly buffer.
package prep

import "errors"

// ErrInsufficientData indicates fewer than two usable samples.
var ErrInsufficientData = errors.New("prep: insufficient samples")

// Prepare returns a new slice holding the first 2^k samples of signal,
// where 2^k is the largest power of two not exceeding len(signal), with
// the arithmetic mean of that truncated window subtracted from every
// sample. The input is never modified and never padded.
func Prepare(signal []float64) ([]float64, error) {
	if len(signal) < 2 {
		return nil, ErrInsufficientData
	}

	n := largestPowerOf2(len(signal))

	out := make([]float64, n)
	copy(out, signal[:n])

	mean := kahanMean(out)
	for i := range out {
		out[i] -= mean
	}

	return out, nil
}

// largestPowerOf2 returns the largest power of two <= n. n must be >= 1.
func largestPowerOf2(n int) int {
	p := 1
	for p<<1 <= n {
		p <<= 1
	}

	return p
}

// kahanMean returns the arithmetic mean using Kahan summation for
// numerical stability on long captures.
func kahanMean(signal []float64) float64 {
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}
