package exttool

import (
	"context"
	"errors"
	"fmt"

	"github.com/toneprobe/toneprobe/measure/distortion"
	"github.com/toneprobe/toneprobe/waveform"
)

// ErrNoSource indicates a waveform without a known file path; the external
// analyzer re-reads captures from disk.
var ErrNoSource = errors.New("exttool: waveform has no source path")

// Tool adapts an external script-based analyzer to the shared
// distortion.Provider capability.
//
// The interpreter and script locations are explicit configuration; no
// environment probing happens here.
type Tool struct {
	// Interpreter is the executable that runs the script, e.g. "python3".
	Interpreter string

	// Script is the path of the analyzer script.
	Script string

	// BoardType is forwarded to the analyzer's channel-selection logic.
	BoardType string

	// Runner executes the subprocess. Defaults to ExecRunner{} when nil.
	Runner Runner
}

var _ distortion.Provider = (*Tool)(nil)

// Measure runs the external analyzer's THD operation against the
// waveform's source file and parses the captured output.
func (t *Tool) Measure(w *waveform.Waveform) (distortion.Measurement, error) {
	if w == nil || w.Source == "" {
		return distortion.Measurement{}, ErrNoSource
	}

	rec, _, err := t.MeasureFile(context.Background(), w.Source)

	return rec.Measurement, err
}

// MeasureFile runs the external analyzer against path, returning the parsed
// record plus any parse warnings.
func (t *Tool) MeasureFile(ctx context.Context, path string) (Record, []string, error) {
	if t.Interpreter == "" || t.Script == "" {
		return Record{}, nil, fmt.Errorf("exttool: interpreter and script must be configured")
	}

	board := t.BoardType
	if board == "" {
		board = "EVT"
	}

	runner := t.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	out, err := runner.Run(ctx, t.Interpreter, t.Script, "THD", board, path)
	if err != nil {
		return Record{}, nil, err
	}

	rec, warnings := Parse(out.Stdout)

	return rec, warnings, nil
}
