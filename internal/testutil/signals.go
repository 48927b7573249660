// Package testutil provides deterministic signals and assertions shared by
// package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// TwoTone generates the sum of two equal-length sine waves.
func TwoTone(freqA, freqB, sampleRate, amplitude float64, length int) []float64 {
	out := Sine(freqA, sampleRate, amplitude, length)
	b := Sine(freqB, sampleRate, amplitude, length)
	for i := range out {
		out[i] += b[i]
	}

	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}
