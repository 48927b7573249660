// Package bandstop removes a frequency band from a time-domain signal.
//
// The filter zeroes every FFT bin whose center frequency falls inside the
// stopped band (including the mirrored negative-frequency bins) and inverse
// transforms, reproducing the reference notch-then-inverse-FFT noise
// isolation used for THD+N.
package bandstop

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by Apply.
var (
	ErrBandOrder   = errors.New("bandstop: low cutoff must be below high cutoff")
	ErrEmptySignal = errors.New("bandstop: signal must not be empty")
)

// Apply attenuates frequency content within [low, high] Hz and returns the
// residual signal of the same length.
//
// low < high is required. A negative low clamps to 0 so a notch centered
// near DC never fails; len(signal) is expected to be a power of two
// (prep.Prepare output).
func Apply(signal []float64, sampleRate, low, high float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("bandstop: sample rate must be > 0: %f", sampleRate)
	}

	if low >= high {
		return nil, ErrBandOrder
	}

	if low < 0 {
		low = 0
	}

	n := len(signal)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("bandstop: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	freq := make([]complex128, n)
	if err := plan.Forward(freq, in); err != nil {
		return nil, fmt.Errorf("bandstop: forward FFT failed: %w", err)
	}

	binHz := sampleRate / float64(n)
	for i := 0; i <= n/2; i++ {
		f := float64(i) * binHz
		if f < low || f > high {
			continue
		}

		freq[i] = 0
		if i > 0 && i < n-i {
			freq[n-i] = 0 // mirrored negative-frequency bin
		}
	}

	out := make([]complex128, n)
	if err := plan.Inverse(out, freq); err != nil {
		return nil, fmt.Errorf("bandstop: inverse FFT failed: %w", err)
	}

	residual := make([]float64, n)
	for i := range residual {
		residual[i] = real(out[i])
	}

	return residual, nil
}
