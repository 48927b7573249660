// Package report renders measurement results for export and
// cross-validation between analysis paths.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/toneprobe/toneprobe/measure/distortion"
)

// WriteCSV writes one "<freq>,<magnitude>" row per bin, no header.
func WriteCSV(w io.Writer, freqs []int, magnitudes []float64) error {
	if len(freqs) != len(magnitudes) {
		return fmt.Errorf("report: length mismatch: %d frequencies, %d magnitudes", len(freqs), len(magnitudes))
	}

	for i := range freqs {
		row := strconv.Itoa(freqs[i]) + "," + strconv.FormatFloat(magnitudes[i], 'g', -1, 64) + "\n"
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("report: failed to write row %d: %w", i, err)
		}
	}

	return nil
}

// FFTRow groups repeated per-frequency amplitude observations from a
// multi-run source.
type FFTRow struct {
	FrequencyHz    int
	AmplitudesDBFS []float64
}

// Rows groups index-aligned (frequency, amplitude) observations by
// frequency, preserving first-seen frequency order.
func Rows(freqs []int, amplitudes []float64) ([]FFTRow, error) {
	if len(freqs) != len(amplitudes) {
		return nil, fmt.Errorf("report: length mismatch: %d frequencies, %d amplitudes", len(freqs), len(amplitudes))
	}

	index := make(map[int]int, len(freqs))
	rows := make([]FFTRow, 0, len(freqs))

	for i, f := range freqs {
		j, ok := index[f]
		if !ok {
			j = len(rows)
			index[f] = j
			rows = append(rows, FFTRow{FrequencyHz: f})
		}

		rows[j].AmplitudesDBFS = append(rows[j].AmplitudesDBFS, amplitudes[i])
	}

	return rows, nil
}

// Delta holds absolute differences between two measurements, one per
// analysis path. Tolerance policy belongs to the caller.
type Delta struct {
	DominantFreq float64
	THDPercent   float64
	THDdBFS      float64
}

// Compare returns the absolute per-field differences between a and b.
func Compare(a, b distortion.Measurement) Delta {
	return Delta{
		DominantFreq: math.Abs(a.DominantFreq - b.DominantFreq),
		THDPercent:   math.Abs(a.THDPercent - b.THDPercent),
		THDdBFS:      math.Abs(a.THDdBFS - b.THDdBFS),
	}
}

// CriteriaFrequencies returns a log-spaced integer frequency grid between
// lowHz and highHz inclusive, used for pass/fail criteria files.
func CriteriaFrequencies(points int, lowHz, highHz float64) ([]int, error) {
	if points < 2 {
		return nil, fmt.Errorf("report: criteria needs at least 2 points: %d", points)
	}

	if lowHz <= 0 || lowHz >= highHz {
		return nil, fmt.Errorf("report: criteria band must satisfy 0 < low < high: [%f, %f]", lowHz, highHz)
	}

	grid := make([]float64, points)
	floats.LogSpan(grid, lowHz, highHz)

	out := make([]int, points)
	for i, f := range grid {
		out[i] = int(math.Round(f))
	}

	return out, nil
}

// WriteCriteriaCSV writes a three-row criteria file: the frequency grid,
// then the amplitude limit and ERLE limit repeated per point.
func WriteCriteriaCSV(w io.Writer, freqs []int, amplitude, erle float64) error {
	if len(freqs) == 0 {
		return fmt.Errorf("report: criteria frequency grid must not be empty")
	}

	writeRow := func(cell func(i int) string) error {
		for i := range freqs {
			s := cell(i)
			if i > 0 {
				s = "," + s
			}

			if _, err := io.WriteString(w, s); err != nil {
				return fmt.Errorf("report: failed to write criteria row: %w", err)
			}
		}

		_, err := io.WriteString(w, "\n")
		if err != nil {
			return fmt.Errorf("report: failed to write criteria row: %w", err)
		}

		return nil
	}

	if err := writeRow(func(i int) string { return strconv.Itoa(freqs[i]) }); err != nil {
		return err
	}

	ampCell := strconv.FormatFloat(amplitude, 'g', -1, 64)
	if err := writeRow(func(int) string { return ampCell }); err != nil {
		return err
	}

	erleCell := strconv.FormatFloat(erle, 'g', -1, 64)

	return writeRow(func(int) string { return erleCell })
}
