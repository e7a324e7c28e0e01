// Package config holds the analysis configuration recognized by the feature
// pipeline, its defaults, and JSON loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
	"github.com/RyanBlaney/sonido-vista/algorithms/windowing"
)

const (
	DefaultFrameLength    = 2048
	DefaultMelBands       = 128
	DefaultMFCCCoeffs     = 20
	DefaultTopDB          = 80.0
	DefaultCLISampleRate  = 22050
	DefaultResampleMethod = common.ResampleLinear
)

// AnalysisConfig configures one analysis request
type AnalysisConfig struct {
	FrameLength int `json:"frame_length"` // samples per frame (FFT size)
	HopLength   int `json:"hop_length"`   // stride between frame starts; 0 means frame_length/4
	MelBands    int `json:"mel_bands"`
	MFCCCoeffs  int `json:"mfcc_coeffs"`

	// SampleRate, when > 0 and different from the source, resamples before analysis
	SampleRate      int                    `json:"sample_rate"`
	ResampleQuality common.ResampleQuality `json:"resample_quality"`

	Window windowing.Type `json:"window"`
	Lifter float64        `json:"lifter"` // 0 disables liftering

	// Conditioning applied to the spectral path only; the waveform and
	// Fourier views always see the unfiltered signal
	PreEmphasis float64 `json:"pre_emphasis"` // 0 disables, otherwise in (0, 1)
	DCCutoff    float64 `json:"dc_cutoff"`    // Hz; 0 disables

	// Decibels adds a power_to_db view of the mel spectrogram
	Decibels bool    `json:"decibels"`
	TopDB    float64 `json:"top_db"`

	Workers int `json:"workers"` // 0 sizes the frame worker pool automatically
}

// DefaultAnalysisConfig returns the conventional speech/music analysis defaults
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		FrameLength:     DefaultFrameLength,
		HopLength:       DefaultFrameLength / 4,
		MelBands:        DefaultMelBands,
		MFCCCoeffs:      DefaultMFCCCoeffs,
		ResampleQuality: DefaultResampleMethod,
		Window:          windowing.TypeHann,
		TopDB:           DefaultTopDB,
	}
}

// EffectiveHopLength resolves the hop default
func (c *AnalysisConfig) EffectiveHopLength() int {
	if c.HopLength == 0 {
		return max(c.FrameLength/4, 1)
	}
	return c.HopLength
}

// FrequencyBins returns the length of one frame's power spectrum
func (c *AnalysisConfig) FrequencyBins() int {
	return c.FrameLength/2 + 1
}

// Validate checks the configuration before any computation starts
func (c *AnalysisConfig) Validate() error {
	if c.FrameLength <= 0 {
		return fmt.Errorf("frame_length %d: %w", c.FrameLength, common.ErrInvalidFrameLength)
	}

	hop := c.EffectiveHopLength()
	if hop <= 0 || hop > c.FrameLength {
		return fmt.Errorf("hop_length %d with frame_length %d: %w", hop, c.FrameLength, common.ErrInvalidHop)
	}

	if c.MelBands < 1 || c.MelBands > c.FrequencyBins() {
		return fmt.Errorf("mel_bands %d over %d bins: %w", c.MelBands, c.FrequencyBins(), common.ErrInvalidBandCount)
	}

	if c.MFCCCoeffs < 1 || c.MFCCCoeffs > c.MelBands {
		return fmt.Errorf("mfcc_coeffs %d with mel_bands %d: %w", c.MFCCCoeffs, c.MelBands, common.ErrInvalidCoefficientCount)
	}

	if c.SampleRate < 0 {
		return fmt.Errorf("sample_rate %d: %w", c.SampleRate, common.ErrUnsupportedSampleRate)
	}

	switch c.Window {
	case "", windowing.TypeHann, windowing.TypeHamming, windowing.TypeRectangular:
	default:
		return fmt.Errorf("window %q: %w", c.Window, common.ErrUnknownWindow)
	}

	if c.Lifter < 0 {
		return fmt.Errorf("lifter %v must be >= 0", c.Lifter)
	}
	if c.PreEmphasis < 0 || c.PreEmphasis >= 1 {
		return fmt.Errorf("pre_emphasis %v must be in [0, 1)", c.PreEmphasis)
	}
	if c.DCCutoff < 0 {
		return fmt.Errorf("dc_cutoff %v must be >= 0", c.DCCutoff)
	}
	if c.SampleRate > 0 && c.DCCutoff >= float64(c.SampleRate)/2 {
		return fmt.Errorf("dc_cutoff %v must be below the %d Hz Nyquist frequency", c.DCCutoff, c.SampleRate/2)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must be >= 0", c.Workers)
	}

	return nil
}

// Load reads a JSON config file over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (*AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as indented JSON
func Save(path string, cfg *AnalysisConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
