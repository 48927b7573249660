// Package spectrum computes one-sided magnitude spectra and their
// integer-frequency reporting view.
package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/toneprobe/toneprobe/dsp/window"
)

// MinReportHz is the lowest frequency kept in the bucketed reporting view.
const MinReportHz = 300

// Spectrum holds a one-sided magnitude spectrum. Frequencies[i] and
// Magnitudes[i] are index-aligned; frequencies ascend starting at 0 Hz.
type Spectrum struct {
	Frequencies []float64
	Magnitudes  []float64
}

// BucketedSpectrum is a read-only reporting view of a Spectrum with
// frequencies rounded to the nearest Hz, consecutive duplicates collapsed,
// and entries below MinReportHz discarded.
type BucketedSpectrum struct {
	Frequencies []int
	Magnitudes  []float64
}

// Option configures spectrum analysis.
type Option func(*config)

type config struct {
	window window.Type
}

// WithWindow applies a window before the transform. The default is
// rectangular, matching the reference measurement behavior.
func WithWindow(t window.Type) Option {
	return func(cfg *config) {
		cfg.window = t
	}
}

// Analyze computes the one-sided magnitude spectrum of a real-valued signal.
//
// len(signal) must be a power of two; callers are expected to pass the
// output of prep.Prepare. Bin i maps to i * sampleRate / len(signal),
// and the output holds the len(signal)/2 non-negative-frequency bins.
func Analyze(signal []float64, sampleRate float64, opts ...Option) (*Spectrum, error) {
	if len(signal) < 2 {
		return nil, fmt.Errorf("spectrum: signal too short: %d samples", len(signal))
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	cfg := config{window: window.TypeRectangular}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(signal)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	windowed := window.Apply(cfg.window, signal)

	in := make([]complex128, n)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	half := n / 2
	binHz := sampleRate / float64(n)

	freqs := make([]float64, half)
	for i := range freqs {
		freqs[i] = float64(i) * binHz
	}

	return &Spectrum{
		Frequencies: freqs,
		Magnitudes:  magnitude(out[:half]),
	}, nil
}

// PeakBin returns the index of the largest magnitude. Ties resolve to the
// first occurrence in ascending-frequency order.
func (s *Spectrum) PeakBin() int {
	best := 0
	bestVal := math.Inf(-1)

	for i, m := range s.Magnitudes {
		if m > bestVal {
			bestVal = m
			best = i
		}
	}

	return best
}

// BinWidth returns the frequency spacing between adjacent bins in Hz.
func (s *Spectrum) BinWidth() float64 {
	if len(s.Frequencies) < 2 {
		return 0
	}

	return s.Frequencies[1] - s.Frequencies[0]
}

// Bucket derives the integer-frequency reporting view of s.
//
// Frequencies are rounded to the nearest Hz in ascending order; a value is
// kept only if it differs from the previously kept integer frequency and is
// at least MinReportHz. The result suits log-frequency plotting over
// roughly 300 Hz to 8 kHz.
func Bucket(s *Spectrum) BucketedSpectrum {
	var b BucketedSpectrum

	last := -1
	for i, f := range s.Frequencies {
		hz := int(math.Round(f))
		if hz < MinReportHz || hz == last {
			continue
		}

		b.Frequencies = append(b.Frequencies, hz)
		b.Magnitudes = append(b.Magnitudes, s.Magnitudes[i])
		last = hz
	}

	return b
}

// magnitude returns |X[k]| for each bin using SIMD-backed vector math.
func magnitude(bins []complex128) []float64 {
	out := make([]float64, len(bins))
	re := make([]float64, len(bins))
	im := make([]float64, len(bins))

	for i, c := range bins {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}
