package features

import (
	"fmt"
	"time"
)

// Signal is a decoded mono sample buffer at a fixed rate. The pipeline only
// reads Samples.
type Signal struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// NewSignal wraps samples decoded at sampleRate
func NewSignal(samples []float64, sampleRate int) Signal {
	return Signal{Samples: samples, SampleRate: sampleRate}
}

// Validate checks length >= 1 and a positive sample rate
func (s Signal) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("signal sample rate %d: %w", s.SampleRate, ErrUnsupportedSampleRate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("empty signal: %w", ErrSignalTooShort)
	}
	return nil
}

// Duration returns the signal length in time
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}
