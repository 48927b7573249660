package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes interleaved float samples in [-1, 1] as a 16-bit PCM
// WAV file under t's temp dir and returns its path.
func WriteWAV(t *testing.T, name string, samples []float64, sampleRate, channels int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)

	data := make([]int, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		}

		if v < -1 {
			v = -1
		}

		data[i] = int(v * math.MaxInt16)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}

	return path
}

// Interleave merges per-channel sample slices into one interleaved slice.
// All channels must have equal length.
func Interleave(t *testing.T, channels ...[]float64) []float64 {
	t.Helper()

	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	for ch, c := range channels {
		if len(c) != frames {
			t.Fatalf("channel %d length %d, want %d", ch, len(c), frames)
		}
	}

	out := make([]float64, 0, frames*len(channels))
	for i := 0; i < frames; i++ {
		for _, c := range channels {
			out = append(out, c[i])
		}
	}

	return out
}
