package filters

import (
	"fmt"
	"math"
)

// DCRemoval is the one-pole DC blocker
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// with R derived from the -3 dB cutoff as R = 1 - 2π·fc/fs.
type DCRemoval struct {
	poleLocation float64

	x1 float64
	y1 float64
}

// NewDCRemoval creates a DC blocker with the usual pole at 0.995
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{poleLocation: 0.995}
}

// NewDCRemovalWithCutoff creates a DC blocker with the given cutoff in Hz
func NewDCRemovalWithCutoff(sampleRate int, cutoffFreq float64) (*DCRemoval, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if cutoffFreq <= 0 || cutoffFreq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("cutoff %v Hz outside (0, %d)", cutoffFreq, sampleRate/2)
	}

	// small angle approximation, valid for fc << fs/2
	pole := 1 - 2*math.Pi*cutoffFreq/float64(sampleRate)
	pole = math.Min(math.Max(pole, 0.001), 0.999)

	return &DCRemoval{poleLocation: pole}, nil
}

// Process applies DC removal to a single sample
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer filters input into a new slice, continuing from the current state
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter's internal state
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// PoleLocation returns R
func (dc *DCRemoval) PoleLocation() float64 {
	return dc.poleLocation
}

// CutoffFrequency inverts the design formula: fc ≈ (1-R)*fs/(2π)
func (dc *DCRemoval) CutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1 - dc.poleLocation) * float64(sampleRate) / (2 * math.Pi)
}
