// Package waveform decodes recorded audio files into normalized mono
// sample sequences for distortion analysis.
package waveform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// ErrDecode indicates an unreadable, unsupported, or corrupt audio source.
var ErrDecode = errors.New("waveform: cannot decode audio source")

// Recorded captures are scaled by referenceScale/fullScale16 before analysis.
// This two-step scaling matches the capture rig's reference level and must be
// kept exact so measurements stay comparable with archived results.
const (
	referenceScale = 16000.0
	fullScale16    = 32768.0
)

// Waveform is a decoded single-channel sample sequence at a known sample rate.
// It is immutable once produced.
type Waveform struct {
	SampleRate int
	Samples    []float64

	// Source is the path the waveform was loaded from, when known.
	// External measurement tools re-read the capture from this path.
	Source string
}

// Duration returns the waveform length in seconds.
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}

	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Option configures decoding.
type Option func(*config)

type config struct {
	channel int // -1 = automatic mix/select
}

// WithChannel selects a specific source channel instead of the automatic
// mono mix. Channel indices are zero-based.
func WithChannel(channel int) Option {
	return func(cfg *config) {
		if channel >= 0 {
			cfg.channel = channel
		}
	}
}

// Load decodes the WAV file at path into a normalized mono waveform.
func Load(path string, opts ...Option) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	w, err := Decode(f, opts...)
	if err != nil {
		return nil, err
	}

	w.Source = path

	return w, nil
}

// Decode decodes a WAV stream into a normalized mono waveform.
//
// Samples are converted to floating point at their source bit depth, reduced
// to a single channel, and scaled by referenceScale/fullScale16.
func Decode(r io.ReadSeeker, opts ...Option) (*Waveform, error) {
	cfg := config{channel: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav stream", ErrDecode)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing channel layout", ErrDecode)
	}

	channels := buf.Format.NumChannels
	if cfg.channel >= channels {
		return nil, fmt.Errorf("%w: channel %d out of range (%d channels)", ErrDecode, cfg.channel, channels)
	}

	sampleRate := int(dec.SampleRate)
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", ErrDecode, sampleRate)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}

	fullScale := float64(uint64(1) << (bitDepth - 1))
	scale := referenceScale / fullScale16 / fullScale

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	switch {
	case cfg.channel >= 0:
		for i := range samples {
			samples[i] = float64(buf.Data[i*channels+cfg.channel]) * scale
		}
	case channels == 1:
		for i := range samples {
			samples[i] = float64(buf.Data[i]) * scale
		}
	case channels == 2 && identicalStereo(buf.Data):
		// Duplicate stereo: both channels carry the same capture.
		for i := range samples {
			samples[i] = float64(buf.Data[i*2]) * scale
		}
	default:
		inv := 1.0 / float64(channels)
		for i := range samples {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += float64(buf.Data[i*channels+ch])
			}
			samples[i] = sum * inv * scale
		}
	}

	return &Waveform{SampleRate: sampleRate, Samples: samples}, nil
}

func identicalStereo(interleaved []int) bool {
	for i := 0; i+1 < len(interleaved); i += 2 {
		if interleaved[i] != interleaved[i+1] {
			return false
		}
	}

	return true
}
