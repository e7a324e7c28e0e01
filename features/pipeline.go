// Package features turns a decoded signal into the four analysis views: the
// waveform, a mel spectrogram, MFCCs and the whole-signal Fourier magnitude.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
	"github.com/RyanBlaney/sonido-vista/algorithms/filters"
	"github.com/RyanBlaney/sonido-vista/algorithms/spectral"
	"github.com/RyanBlaney/sonido-vista/algorithms/windowing"
	"github.com/RyanBlaney/sonido-vista/features/config"
	"github.com/RyanBlaney/sonido-vista/logging"
)

// Pipeline runs framing, STFT, mel projection, cepstral transform and the
// whole-signal FFT for one configuration. It holds no per-request state and
// is safe for concurrent use.
type Pipeline struct {
	config config.AnalysisConfig

	framer    *windowing.Framer
	stft      *spectral.STFT
	fft       *spectral.FFT
	cepstral  *spectral.CepstralTransform
	resampler *common.Resampler
	decibels  *spectral.DecibelScaler

	logger logging.Logger

	// frameHook observes each frame as it is projected; tests use it to hold
	// a request in flight
	frameHook func(frameIdx int)
}

// NewPipeline validates cfg and prepares everything that does not depend on
// the signal. A nil cfg uses DefaultAnalysisConfig.
func NewPipeline(cfg *config.AnalysisConfig) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	window, err := windowing.New(cfg.Window, cfg.FrameLength)
	if err != nil {
		return nil, err
	}

	framer, err := windowing.NewFramer(cfg.FrameLength, cfg.EffectiveHopLength(), window)
	if err != nil {
		return nil, err
	}

	cepstral, err := spectral.NewCepstralTransform(cfg.MelBands, cfg.MFCCCoeffs, cfg.Lifter)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:    *cfg,
		framer:    framer,
		stft:      spectral.NewSTFT(cfg.Workers),
		fft:       spectral.NewFFT(),
		cepstral:  cepstral,
		resampler: common.NewResampler(cfg.ResampleQuality),
		decibels:  spectral.NewDecibelScaler(cfg.TopDB),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_pipeline",
		}),
	}, nil
}

// Config returns a copy of the pipeline configuration
func (p *Pipeline) Config() config.AnalysisConfig {
	return p.config
}

// Analyze computes all views of signal. It either returns a complete Result
// or an error, never a partial result. Cancelling ctx abandons the request.
func (p *Pipeline) Analyze(ctx context.Context, signal Signal) (*Result, error) {
	started := time.Now()

	logger := p.logger.WithContext(ctx).WithFields(logging.Fields{
		"function":    "Analyze",
		"samples":     len(signal.Samples),
		"sample_rate": signal.SampleRate,
	})

	if err := signal.Validate(); err != nil {
		return nil, err
	}

	chain, err := p.conditioningChain(p.analysisRate(signal))
	if err != nil {
		return nil, err
	}

	samples, sampleRate, err := p.prepare(signal)
	if err != nil {
		return nil, err
	}

	numFrames, err := p.framer.Count(len(samples))
	if err != nil {
		return nil, err
	}

	filterbank, err := spectral.NewMelFilterbank(sampleRate, p.config.MelBands, p.config.FrequencyBins())
	if err != nil {
		return nil, err
	}

	conditioned := chain.ProcessBuffer(samples)

	logger.Debug("Starting analysis", logging.Fields{
		"analysis_rate": sampleRate,
		"frames":        numFrames,
	})

	melSpectrogram, err := p.melSpectrogram(ctx, conditioned, filterbank, numFrames)
	if err != nil {
		return nil, err
	}

	mfcc, err := p.cepstral.ApplyMatrix(melSpectrogram)
	if err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fourier, err := p.fft.MagnitudeSpectrum(samples)
	if err != nil {
		return nil, fmt.Errorf("fourier spectrum: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	waveform := make([]float64, len(samples))
	copy(waveform, samples)

	result := &Result{
		Waveform:         waveform,
		MelSpectrogram:   melSpectrogram,
		MFCC:             mfcc,
		Fourier:          fourier,
		SampleRate:       sampleRate,
		SourceSampleRate: signal.SampleRate,
		FrameLength:      p.config.FrameLength,
		HopLength:        p.framer.HopLength(),
		FrameCount:       numFrames,
		MelBands:         p.config.MelBands,
		MFCCCoeffs:       p.config.MFCCCoeffs,
		Window:           string(p.framer.Window().Type()),
		MelFrequencies:   filterbank.CenterFrequencies(),
		DurationSeconds:  float64(len(samples)) / float64(sampleRate),
	}

	if p.config.Decibels {
		result.MelSpectrogramDB = p.decibels.PowerToDB(melSpectrogram)
	}

	logger.Debug("Analysis completed", logging.Fields{
		"frames":  numFrames,
		"elapsed": time.Since(started).String(),
	})

	return result, nil
}

// analysisRate is the rate the signal is analyzed at
func (p *Pipeline) analysisRate(signal Signal) int {
	if p.config.SampleRate > 0 {
		return p.config.SampleRate
	}
	return signal.SampleRate
}

// prepare resamples when the configuration asks for a different rate
func (p *Pipeline) prepare(signal Signal) ([]float64, int, error) {
	target := p.analysisRate(signal)
	if target == signal.SampleRate {
		return signal.Samples, signal.SampleRate, nil
	}

	resampled, err := p.resampler.Resample(signal.Samples, signal.SampleRate, target)
	if err != nil {
		return nil, 0, fmt.Errorf("resample: %w", err)
	}
	return resampled, target, nil
}

// conditioningChain builds the configured DC blocking and pre-emphasis for
// sampleRate. Filters are stateful, so each request gets its own chain.
func (p *Pipeline) conditioningChain(sampleRate int) (filters.Chain, error) {
	var chain filters.Chain

	if p.config.DCCutoff > 0 {
		dc, err := filters.NewDCRemovalWithCutoff(sampleRate, p.config.DCCutoff)
		if err != nil {
			return nil, fmt.Errorf("dc removal: %w", err)
		}
		chain = append(chain, dc)
	}
	if p.config.PreEmphasis > 0 {
		pe, err := filters.NewPreEmphasis(p.config.PreEmphasis)
		if err != nil {
			return nil, err
		}
		chain = append(chain, pe)
	}

	return chain, nil
}

// melSpectrogram fills a [band][frame] matrix. Each frame index is written by
// exactly one worker, so the columns need no locking.
func (p *Pipeline) melSpectrogram(ctx context.Context, samples []float64, filterbank *spectral.MelFilterbank, numFrames int) ([][]float64, error) {
	mel := make([][]float64, filterbank.NumBands())
	for b := range mel {
		mel[b] = make([]float64, numFrames)
	}

	err := p.stft.Process(ctx, samples, p.framer, func(frameIdx int, power []float64) error {
		if p.frameHook != nil {
			p.frameHook(frameIdx)
		}

		energies, err := filterbank.Apply(power)
		if err != nil {
			return err
		}
		for b, e := range energies {
			mel[b][frameIdx] = e
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mel spectrogram: %w", err)
	}

	return mel, nil
}
