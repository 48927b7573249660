// Package time computes time-domain signal statistics.
package time

import "math"

// Stats holds the time-domain statistics reported for a capture.
//
//nolint:revive
type Stats struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	RMS_dB      float64
	Peak        float64 // max absolute amplitude
	Peak_dB     float64
	CrestFactor float64 // peak / RMS (linear), 0 when RMS is 0
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes all statistics in a single pass over the signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{RMS_dB: math.Inf(-1), Peak_dB: math.Inf(-1)}
	}

	var (
		sumSq float64
		peak  float64
	)

	// Kahan accumulator for the mean.
	var sum, c float64

	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	crest := 0.0
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:      n,
		DC:          sum / nf,
		RMS:         rms,
		RMS_dB:      ampTodB(rms),
		Peak:        peak,
		Peak_dB:     ampTodB(peak),
		CrestFactor: crest,
	}
}

// RMS returns the root-mean-square of the signal. Empty input returns 0.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal using Kahan summation.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}
	}

	return peak
}
