package features

import (
	"github.com/RyanBlaney/sonido-vista/algorithms/common"
	"github.com/RyanBlaney/sonido-vista/algorithms/spectral"
)

// Result holds the four views of one analyzed signal plus the metadata a
// renderer needs to label its axes. Matrices are indexed [row][frame], with
// frame i covering samples [i*HopLength, i*HopLength+FrameLength).
type Result struct {
	Waveform         []float64   `json:"waveform"`
	MelSpectrogram   [][]float64 `json:"mel_spectrogram"`              // [band][frame]
	MelSpectrogramDB [][]float64 `json:"mel_spectrogram_db,omitempty"` // [band][frame], only when requested
	MFCC             [][]float64 `json:"mfcc"`                         // [coefficient][frame]
	Fourier          []float64   `json:"fourier"`                      // |X[k]| over the whole signal

	SampleRate       int       `json:"sample_rate"`        // rate the views were computed at
	SourceSampleRate int       `json:"source_sample_rate"` // rate of the decoded input
	FrameLength      int       `json:"frame_length"`
	HopLength        int       `json:"hop_length"`
	FrameCount       int       `json:"frame_count"`
	MelBands         int       `json:"mel_bands"`
	MFCCCoeffs       int       `json:"mfcc_coeffs"`
	Window           string    `json:"window"`
	MelFrequencies   []float64 `json:"mel_frequencies"` // centre of each band in Hz
	DurationSeconds  float64   `json:"duration_seconds"`
}

// SampleTime returns the time in seconds of waveform sample i
func (r *Result) SampleTime(i int) float64 {
	return float64(i) / float64(r.SampleRate)
}

// FrameTime returns the start time in seconds of spectrogram frame i
func (r *Result) FrameTime(i int) float64 {
	return float64(i*r.HopLength) / float64(r.SampleRate)
}

// FourierBinFrequency returns the frequency in Hz of Fourier bin k
func (r *Result) FourierBinFrequency(k int) float64 {
	return spectral.BinFrequency(k, len(r.Fourier), r.SampleRate)
}

// Stats summarizes a result for logging
type Stats struct {
	Peak    float64 `json:"peak"`
	RMS     float64 `json:"rms"`
	MelPeak float64 `json:"mel_peak"`
	Mean    float64 `json:"mean"` // DC offset of the waveform
}

// Stats computes waveform and spectrogram summary values
func (r *Result) Stats() Stats {
	return Stats{
		Peak:    common.Peak(r.Waveform),
		RMS:     common.RMS(r.Waveform),
		MelPeak: common.MatrixMax(r.MelSpectrogram),
		Mean:    common.Mean(r.Waveform),
	}
}
