// Command sonido-vista decodes an audio file, computes its waveform, mel
// spectrogram, MFCC and Fourier views, and writes them as JSON for a
// rendering frontend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/sonido-vista/algorithms/windowing"
	"github.com/RyanBlaney/sonido-vista/export"
	"github.com/RyanBlaney/sonido-vista/features"
	"github.com/RyanBlaney/sonido-vista/features/config"
	"github.com/RyanBlaney/sonido-vista/logging"
	"github.com/RyanBlaney/sonido-vista/transcode"
)

type options struct {
	configPath  string
	sampleRate  int
	frameLength int
	hopLength   int
	melBands    int
	mfccCoeffs  int
	window      string
	out         string
	compression string
	decibels    bool
	preEmphasis float64
	dcCutoff    float64
	maxDuration float64
	logLevel    string
	logFormat   string
	input       string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("sonido-vista", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: sonido-vista [flags] <audio file>\n\n")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "JSON analysis config file")
	fs.IntVar(&o.sampleRate, "sr", config.DefaultCLISampleRate, "analysis sample rate, 0 keeps the file's rate")
	fs.IntVar(&o.frameLength, "n-fft", config.DefaultFrameLength, "frame length in samples")
	fs.IntVar(&o.hopLength, "hop", 0, "hop length in samples, 0 means n-fft/4")
	fs.IntVar(&o.melBands, "n-mels", config.DefaultMelBands, "number of mel bands")
	fs.IntVar(&o.mfccCoeffs, "n-mfcc", config.DefaultMFCCCoeffs, "number of cepstral coefficients")
	fs.StringVar(&o.window, "window", "hann", "window function: hann, hamming or rectangular")
	fs.StringVar(&o.out, "out", "", "output path, defaults to the input name with the export extension")
	fs.StringVar(&o.compression, "compression", "none", "none, gzip, zstd, snappy, lz4 or brotli")
	fs.BoolVar(&o.decibels, "db", false, "also export the mel spectrogram in decibels")
	fs.Float64Var(&o.preEmphasis, "pre-emphasis", 0, "pre-emphasis coefficient for the spectral views, 0 disables")
	fs.Float64Var(&o.dcCutoff, "dc-cutoff", 0, "DC blocker cutoff in Hz for the spectral views, 0 disables")
	fs.Float64Var(&o.maxDuration, "max-duration", 0, "decode at most this many seconds, 0 for all")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", "text", "text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one audio file")
	}
	o.input = fs.Arg(0)

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	return o, nil
}

// analysisConfig layers explicitly set flags over the config file, or over
// the defaults when no file is given
func (o *options) analysisConfig() (*config.AnalysisConfig, error) {
	cfg := config.DefaultAnalysisConfig()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.SampleRate = o.sampleRate
	}

	if o.set["sr"] {
		cfg.SampleRate = o.sampleRate
	}
	if o.set["n-fft"] {
		cfg.FrameLength = o.frameLength
		if !o.set["hop"] {
			cfg.HopLength = 0
		}
	}
	if o.set["hop"] {
		cfg.HopLength = o.hopLength
	}
	if o.set["n-mels"] {
		cfg.MelBands = o.melBands
	}
	if o.set["n-mfcc"] {
		cfg.MFCCCoeffs = o.mfccCoeffs
	}
	if o.set["window"] {
		cfg.Window = windowing.Type(o.window)
	}
	if o.set["db"] {
		cfg.Decibels = o.decibels
	}
	if o.set["pre-emphasis"] {
		cfg.PreEmphasis = o.preEmphasis
	}
	if o.set["dc-cutoff"] {
		cfg.DCCutoff = o.dcCutoff
	}

	return cfg, cfg.Validate()
}

func newLogger(format, level string, stdout io.Writer) (logging.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "text", "":
		if stdout == os.Stdout {
			l := logging.NewDefaultLogger()
			l.SetLevel(lvl)
			return l, nil
		}
		return logging.NewWriterLogger(stdout, lvl), nil
	case "json":
		return logging.NewZapLogger(lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts.logFormat, opts.logLevel, stdout)
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	compression, err := export.ParseCompression(opts.compression)
	if err != nil {
		return err
	}

	cfg, err := opts.analysisConfig()
	if err != nil {
		return err
	}

	ctx = logging.ContextWithFields(ctx, logging.Fields{"input": opts.input})

	decoderConfig := transcode.DefaultDecoderConfig()
	decoderConfig.MaxDuration = secondsToDuration(opts.maxDuration)
	audio, err := transcode.NewDecoder(decoderConfig).DecodeFile(ctx, opts.input)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.input, err)
	}

	pipeline, err := features.NewPipeline(cfg)
	if err != nil {
		return err
	}

	session := features.NewSession(pipeline)
	result, err := session.Load(ctx, features.NewSignal(audio.PCM, audio.SampleRate))
	if err != nil {
		return fmt.Errorf("analyze %s: %w", opts.input, err)
	}

	out := opts.out
	if out == "" {
		base := strings.TrimSuffix(opts.input, filepath.Ext(opts.input))
		out = base + compression.Extension()
	}
	if err := export.WriteFile(out, result, &export.Options{Compression: compression}); err != nil {
		return err
	}

	stats := result.Stats()
	logger.WithContext(ctx).Info("Analysis written", logging.Fields{
		"output":        out,
		"format":        string(audio.Format),
		"source_rate":   result.SourceSampleRate,
		"sample_rate":   result.SampleRate,
		"duration":      result.DurationSeconds,
		"frames":        result.FrameCount,
		"mel_bands":     result.MelBands,
		"mfcc_coeffs":   result.MFCCCoeffs,
		"peak":          stats.Peak,
		"rms":           stats.RMS,
		"mel_peak":      stats.MelPeak,
		"truncated":     audio.Truncated,
		"compression":   string(compression),
		"channels":      audio.Channels,
	})

	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "sonido-vista: %v\n", err)
		stop()
		os.Exit(1)
	}
}
