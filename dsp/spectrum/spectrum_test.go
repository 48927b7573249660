package spectrum

import (
	"math"
	"testing"

	"github.com/toneprobe/toneprobe/dsp/window"
	"github.com/toneprobe/toneprobe/internal/testutil"
)

func TestAnalyzeBinMapping(t *testing.T) {
	const (
		n          = 4096
		sampleRate = 48000.0
	)

	signal := testutil.Sine(1500, sampleRate, 1.0, n)

	spec, err := Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(spec.Frequencies) != n/2 {
		t.Fatalf("bin count: got %d, want %d", len(spec.Frequencies), n/2)
	}

	if len(spec.Frequencies) != len(spec.Magnitudes) {
		t.Fatalf("frequency/magnitude length mismatch: %d vs %d", len(spec.Frequencies), len(spec.Magnitudes))
	}

	if spec.Frequencies[0] != 0 {
		t.Fatalf("first frequency: got %v, want 0", spec.Frequencies[0])
	}

	binHz := sampleRate / n
	for i := 1; i < len(spec.Frequencies); i++ {
		want := float64(i) * binHz
		if math.Abs(spec.Frequencies[i]-want) > 1e-9 {
			t.Fatalf("bin %d: got %v, want %v", i, spec.Frequencies[i], want)
		}

		if !(spec.Frequencies[i] > spec.Frequencies[i-1]) {
			t.Fatalf("frequencies not strictly ascending at bin %d", i)
		}
	}

	if math.Abs(spec.BinWidth()-binHz) > 1e-12 {
		t.Fatalf("bin width: got %v, want %v", spec.BinWidth(), binHz)
	}
}

func TestAnalyzeLocatesTone(t *testing.T) {
	const (
		n          = 4096
		sampleRate = 48000.0
	)

	// Bin 128 maps to exactly 1500 Hz.
	signal := testutil.Sine(1500, sampleRate, 0.7, n)

	spec, err := Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	peak := spec.PeakBin()
	if peak != 128 {
		t.Fatalf("peak bin: got %d, want 128", peak)
	}

	// Bin-exact tone: everything away from the peak stays far below it.
	for i, m := range spec.Magnitudes {
		if i == peak {
			continue
		}

		if m > spec.Magnitudes[peak]*1e-6 {
			t.Fatalf("bin %d unexpectedly large: %g (peak %g)", i, m, spec.Magnitudes[peak])
		}
	}
}

func TestAnalyzeWithWindowReducesLeakage(t *testing.T) {
	const (
		n          = 4096
		sampleRate = 48000.0
	)

	// Off-bin tone so the rectangular analysis leaks.
	signal := testutil.Sine(1000, sampleRate, 1.0, n)

	flat, err := Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windowed, err := Analyze(signal, sampleRate, WithWindow(window.TypeBlackmanHarris4Term))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Compare energy far from the tone, relative to each peak.
	far := 1000
	flatRel := flat.Magnitudes[far] / flat.Magnitudes[flat.PeakBin()]
	winRel := windowed.Magnitudes[far] / windowed.Magnitudes[windowed.PeakBin()]

	if winRel >= flatRel {
		t.Fatalf("windowing did not reduce leakage: %g >= %g", winRel, flatRel)
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	if _, err := Analyze(nil, 48000); err == nil {
		t.Fatalf("expected error for empty signal")
	}

	if _, err := Analyze([]float64{1, 2, 3, 4}, 0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestPeakBinFirstOccurrenceWins(t *testing.T) {
	spec := &Spectrum{
		Frequencies: []float64{0, 10, 20, 30},
		Magnitudes:  []float64{0, 5, 5, 1},
	}

	if got := spec.PeakBin(); got != 1 {
		t.Fatalf("peak bin: got %d, want 1", got)
	}
}

func TestBucketRoundsDeduplicatesAndBandLimits(t *testing.T) {
	spec := &Spectrum{
		Frequencies: []float64{0, 150, 299.4, 299.6, 300.2, 300.4, 301.2, 1000.7},
		Magnitudes:  []float64{1, 2, 3, 4, 5, 6, 7, 8},
	}

	b := Bucket(spec)

	wantFreqs := []int{300, 301, 1001}
	wantMags := []float64{4, 7, 8}

	if len(b.Frequencies) != len(wantFreqs) {
		t.Fatalf("bucket count: got %d, want %d", len(b.Frequencies), len(wantFreqs))
	}

	for i := range wantFreqs {
		if b.Frequencies[i] != wantFreqs[i] {
			t.Fatalf("frequency %d: got %d, want %d", i, b.Frequencies[i], wantFreqs[i])
		}

		if b.Magnitudes[i] != wantMags[i] {
			t.Fatalf("magnitude %d: got %v, want %v", i, b.Magnitudes[i], wantMags[i])
		}
	}

	for i := 1; i < len(b.Frequencies); i++ {
		if b.Frequencies[i] <= b.Frequencies[i-1] {
			t.Fatalf("bucketed frequencies not strictly ascending at %d", i)
		}
	}
}

func TestBucketDropsEverythingBelowThreshold(t *testing.T) {
	spec := &Spectrum{
		Frequencies: []float64{0, 50, 100, 299},
		Magnitudes:  []float64{1, 1, 1, 1},
	}

	b := Bucket(spec)
	if len(b.Frequencies) != 0 {
		t.Fatalf("expected empty bucket, got %v", b.Frequencies)
	}
}
