package report

import (
	"math"
	"strings"
	"testing"

	"github.com/toneprobe/toneprobe/measure/distortion"
)

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder

	err := WriteCSV(&sb, []int{300, 1000, 2000}, []float64{0.1, 0.5, 0.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "300,0.1\n1000,0.5\n2000,0.05\n"
	if got := sb.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var sb strings.Builder

	if err := WriteCSV(&sb, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sb.Len() != 0 {
		t.Fatalf("expected no output, got %q", sb.String())
	}
}

func TestWriteCSVLengthMismatch(t *testing.T) {
	var sb strings.Builder

	if err := WriteCSV(&sb, []int{300}, []float64{0.1, 0.2}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestRowsGroupsByFrequency(t *testing.T) {
	freqs := []int{300, 1000, 300, 2000, 1000}
	amps := []float64{-10, -20, -11, -30, -21}

	rows, err := Rows(freqs, amps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("row count: got %d, want 3", len(rows))
	}

	wantOrder := []int{300, 1000, 2000}
	for i, f := range wantOrder {
		if rows[i].FrequencyHz != f {
			t.Fatalf("row %d frequency: got %d, want %d", i, rows[i].FrequencyHz, f)
		}
	}

	if len(rows[0].AmplitudesDBFS) != 2 || rows[0].AmplitudesDBFS[0] != -10 || rows[0].AmplitudesDBFS[1] != -11 {
		t.Fatalf("row 0 amplitudes: %v", rows[0].AmplitudesDBFS)
	}

	if len(rows[2].AmplitudesDBFS) != 1 || rows[2].AmplitudesDBFS[0] != -30 {
		t.Fatalf("row 2 amplitudes: %v", rows[2].AmplitudesDBFS)
	}
}

func TestRowsLengthMismatch(t *testing.T) {
	if _, err := Rows([]int{300}, nil); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestCompare(t *testing.T) {
	a := distortion.Measurement{DominantFreq: 1000, THDPercent: 0.5, THDdBFS: -46}
	b := distortion.Measurement{DominantFreq: 997, THDPercent: 0.75, THDdBFS: -42.5}

	d := Compare(a, b)

	if math.Abs(d.DominantFreq-3) > 1e-12 {
		t.Fatalf("frequency delta: got %v, want 3", d.DominantFreq)
	}

	if math.Abs(d.THDPercent-0.25) > 1e-12 {
		t.Fatalf("THD percent delta: got %v, want 0.25", d.THDPercent)
	}

	if math.Abs(d.THDdBFS-3.5) > 1e-12 {
		t.Fatalf("THD dB delta: got %v, want 3.5", d.THDdBFS)
	}
}

func TestCompareSymmetric(t *testing.T) {
	a := distortion.Measurement{DominantFreq: 1000, THDPercent: 0.5, THDdBFS: -46}
	b := distortion.Measurement{DominantFreq: 1010, THDPercent: 0.9, THDdBFS: -40}

	if Compare(a, b) != Compare(b, a) {
		t.Fatalf("compare not symmetric")
	}
}

func TestCompareNaNPropagates(t *testing.T) {
	a := distortion.Measurement{THDdBFS: math.NaN()}
	b := distortion.Measurement{THDdBFS: -46}

	if d := Compare(a, b); !math.IsNaN(d.THDdBFS) {
		t.Fatalf("NaN input delta: got %v, want NaN", d.THDdBFS)
	}
}

func TestCriteriaFrequencies(t *testing.T) {
	freqs, err := CriteriaFrequencies(30, 300, 7500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(freqs) != 30 {
		t.Fatalf("point count: got %d, want 30", len(freqs))
	}

	if freqs[0] != 300 {
		t.Fatalf("first point: got %d, want 300", freqs[0])
	}

	if freqs[len(freqs)-1] != 7500 {
		t.Fatalf("last point: got %d, want 7500", freqs[len(freqs)-1])
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] < freqs[i-1] {
			t.Fatalf("grid not non-decreasing at %d: %v", i, freqs)
		}
	}
}

func TestCriteriaFrequenciesRejectsBadInput(t *testing.T) {
	if _, err := CriteriaFrequencies(1, 300, 7500); err == nil {
		t.Fatalf("expected error for single point")
	}

	if _, err := CriteriaFrequencies(10, 0, 7500); err == nil {
		t.Fatalf("expected error for zero low bound")
	}

	if _, err := CriteriaFrequencies(10, 7500, 300); err == nil {
		t.Fatalf("expected error for inverted band")
	}
}

func TestWriteCriteriaCSV(t *testing.T) {
	var sb strings.Builder

	err := WriteCriteriaCSV(&sb, []int{300, 1000, 7500}, -40, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "300,1000,7500\n-40,-40,-40\n20,20,20\n"
	if got := sb.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteCriteriaCSVEmptyGrid(t *testing.T) {
	var sb strings.Builder

	if err := WriteCriteriaCSV(&sb, nil, -40, 20); err == nil {
		t.Fatalf("expected error for empty grid")
	}
}
