// Command toneprobe analyzes recorded single-tone test captures for
// acoustic distortion.
//
// Usage:
//
//	toneprobe thd capture.wav
//	toneprobe thd capture.wav --interpreter python3 --script audiotools.py
//	toneprobe fft capture.wav --out spectrum.csv
//	toneprobe criteria --points 40 --amplitude 10 --erle 30 --out criteria.csv
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/toneprobe/toneprobe/dsp/prep"
	"github.com/toneprobe/toneprobe/dsp/spectrum"
	"github.com/toneprobe/toneprobe/measure/distortion"
	"github.com/toneprobe/toneprobe/measure/exttool"
	"github.com/toneprobe/toneprobe/report"
	"github.com/toneprobe/toneprobe/waveform"
)

type cli struct {
	Verbose bool `short:"v" help:"Enable debug logging."`

	THD      thdCmd      `cmd:"" help:"Measure THD+N of a recorded test tone."`
	FFT      fftCmd      `cmd:"" help:"Export the bucketed amplitude spectrum as CSV."`
	Criteria criteriaCmd `cmd:"" help:"Generate a log-spaced pass/fail criteria file."`
}

type thdCmd struct {
	File       string  `arg:"" type:"existingfile" help:"Capture to analyze."`
	Channel    int     `default:"-1" help:"Source channel to select (-1 = automatic mono mix)."`
	NotchWidth float64 `default:"50" help:"Half-width in Hz of the band stopped around the dominant tone."`

	Interpreter string        `help:"Interpreter for the external analyzer (enables the second measurement path)."`
	Script      string        `type:"path" help:"External analyzer script path."`
	Board       string        `default:"EVT" help:"Board type forwarded to the external analyzer."`
	Timeout     time.Duration `default:"20s" help:"External analyzer wall-clock timeout."`
}

func (c *thdCmd) Run(log *zap.Logger) error {
	var opts []waveform.Option
	if c.Channel >= 0 {
		opts = append(opts, waveform.WithChannel(c.Channel))
	}

	w, err := waveform.Load(c.File, opts...)
	if err != nil {
		return err
	}

	log.Debug("capture decoded",
		zap.String("file", c.File),
		zap.Int("sample_rate", w.SampleRate),
		zap.Int("samples", len(w.Samples)),
		zap.Float64("duration_s", w.Duration()),
	)

	engine := distortion.NewEngine(distortion.Config{NotchHalfWidthHz: c.NotchWidth})

	m, err := engine.Measure(w)
	if err != nil {
		return err
	}

	log.Info("in-process measurement",
		zap.Float64("dominant_hz", m.DominantFreq),
		zap.Float64("thd_percent", m.THDPercent),
		zap.Float64("thd_dbfs", m.THDdBFS),
	)

	fmt.Printf("Frequency: %.2f THDpercent: %.2f THDdB: %.2f\n", m.DominantFreq, m.THDPercent, m.THDdBFS)

	if c.Interpreter == "" {
		return nil
	}

	tool := &exttool.Tool{
		Interpreter: c.Interpreter,
		Script:      c.Script,
		BoardType:   c.Board,
		Runner:      exttool.ExecRunner{Timeout: c.Timeout},
	}

	rec, warnings, err := tool.MeasureFile(context.Background(), c.File)
	if err != nil {
		// A failed external run is recoverable: the in-process result stands.
		log.Warn("external measurement failed", zap.Error(err))
		return nil
	}

	for _, warning := range warnings {
		log.Warn("external output", zap.String("warning", warning))
	}

	delta := report.Compare(m, rec.Measurement)
	log.Info("external measurement",
		zap.Float64("dominant_hz", rec.DominantFreq),
		zap.Float64("thd_percent", rec.THDPercent),
		zap.Float64("delta_dominant_hz", delta.DominantFreq),
		zap.Float64("delta_thd_percent", delta.THDPercent),
	)

	fmt.Printf("External: Frequency: %.2f SPL: %.2f THDpercent: %.2f\n", rec.DominantFreq, rec.SPL, rec.THDPercent)

	return nil
}

type fftCmd struct {
	File    string `arg:"" type:"existingfile" help:"Capture to analyze."`
	Out     string `type:"path" default:"-" help:"Output CSV path (- for stdout)."`
	Channel int    `default:"-1" help:"Source channel to select (-1 = automatic mono mix)."`
}

func (c *fftCmd) Run(log *zap.Logger) error {
	var opts []waveform.Option
	if c.Channel >= 0 {
		opts = append(opts, waveform.WithChannel(c.Channel))
	}

	w, err := waveform.Load(c.File, opts...)
	if err != nil {
		return err
	}

	prepared, err := prep.Prepare(w.Samples)
	if err != nil {
		return err
	}

	spec, err := spectrum.Analyze(prepared, float64(w.SampleRate))
	if err != nil {
		return err
	}

	bucketed := spectrum.Bucket(spec)
	log.Debug("spectrum computed",
		zap.Int("bins", len(spec.Frequencies)),
		zap.Int("bucketed_bins", len(bucketed.Frequencies)),
		zap.Float64("bin_width_hz", spec.BinWidth()),
	)

	out := os.Stdout
	if c.Out != "-" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Out, err)
		}
		defer f.Close()

		out = f
	}

	return report.WriteCSV(out, bucketed.Frequencies, bucketed.Magnitudes)
}

type criteriaCmd struct {
	Points    int     `default:"40" help:"Number of log-spaced frequency points."`
	Low       float64 `default:"300" help:"Lowest frequency in Hz."`
	High      float64 `default:"7500" help:"Highest frequency in Hz."`
	Amplitude float64 `required:"" help:"Amplitude limit per point."`
	Erle      float64 `required:"" help:"ERLE limit per point."`
	Out       string  `arg:"" type:"path" help:"Criteria CSV path."`
}

func (c *criteriaCmd) Run(log *zap.Logger) error {
	freqs, err := report.CriteriaFrequencies(c.Points, c.Low, c.High)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Out, err)
	}
	defer f.Close()

	if err := report.WriteCriteriaCSV(f, freqs, c.Amplitude, c.Erle); err != nil {
		return err
	}

	log.Info("criteria file written",
		zap.String("path", c.Out),
		zap.Int("points", len(freqs)),
	)

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

func main() {
	args := &cli{}
	ctx := kong.Parse(args,
		kong.Name("toneprobe"),
		kong.Description("Acoustic distortion analysis for codec validation captures."),
		kong.UsageOnError(),
	)

	log, err := newLogger(args.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := ctx.Run(log); err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}
