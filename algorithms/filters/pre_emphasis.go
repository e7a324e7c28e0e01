// Package filters holds the sample-domain conditioning applied before
// framing: first-order pre-emphasis and DC blocking.
package filters

import (
	"fmt"
	"math"
)

// PreEmphasis implements the first-order high-frequency boost
//
//	y[n] = x[n] - α*x[n-1]
//
// Values of α around 0.97 are usual for speech; 0 passes the signal through.
type PreEmphasis struct {
	coefficient float64
	lastSample  float64
}

// NewPreEmphasis creates a pre-emphasis filter. coefficient must lie in [0, 1).
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient < 0 || coefficient >= 1 || math.IsNaN(coefficient) {
		return nil, fmt.Errorf("pre-emphasis coefficient must be in [0, 1), got %v", coefficient)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// Process applies pre-emphasis to a single sample
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer filters input into a new slice, continuing from the current state
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// Reset clears the filter's internal state
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0
}

// Coefficient returns α
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// FrequencyResponse returns |H| at frequency for H(e^jw) = 1 - α*e^-jw
func (pe *PreEmphasis) FrequencyResponse(frequency float64, sampleRate int) float64 {
	w := 2 * math.Pi * frequency / float64(sampleRate)
	re := 1 - pe.coefficient*math.Cos(w)
	im := pe.coefficient * math.Sin(w)
	return math.Hypot(re, im)
}
