package windowing

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// Type names a tapering window function
type Type string

const (
	TypeHann        Type = "hann"
	TypeHamming     Type = "hamming"
	TypeRectangular Type = "rectangular"
)

// Window is a fixed-length tapering function applied to each analysis frame
type Window interface {
	Apply(signal []float64) ([]float64, error)
	ApplyInPlace(signal []float64) error
	Coefficients() []float64
	Size() int
	Type() Type
}

// New builds the named window with size coefficients
func New(windowType Type, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size %d: %w", size, common.ErrInvalidFrameLength)
	}

	switch windowType {
	case TypeHann, "":
		return NewHann(size), nil
	case TypeHamming:
		return NewHamming(size), nil
	case TypeRectangular:
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("%q: %w", windowType, common.ErrUnknownWindow)
	}
}

// table holds precomputed coefficients; the concrete windows embed it
type table struct {
	kind         Type
	coefficients []float64
}

// Apply multiplies signal by the window into a new buffer
func (t *table) Apply(signal []float64) ([]float64, error) {
	if len(signal) != len(t.coefficients) {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), len(t.coefficients), common.ErrInvalidLength)
	}

	windowed := make([]float64, len(signal))
	for i, c := range t.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed, nil
}

// ApplyInPlace multiplies signal by the window, overwriting it
func (t *table) ApplyInPlace(signal []float64) error {
	if len(signal) != len(t.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), len(t.coefficients), common.ErrInvalidLength)
	}

	for i, c := range t.coefficients {
		signal[i] *= c
	}
	return nil
}

// Coefficients returns a copy of the window coefficients
func (t *table) Coefficients() []float64 {
	coeffs := make([]float64, len(t.coefficients))
	copy(coeffs, t.coefficients)
	return coeffs
}

func (t *table) Size() int {
	return len(t.coefficients)
}

func (t *table) Type() Type {
	return t.kind
}

// cosineSum fills a symmetric generalized cosine window a0 - a1*cos(2πi/(N-1)).
// A single-sample window is 1.
func cosineSum(size int, a0, a1 float64) []float64 {
	coeffs := make([]float64, size)
	if size == 1 {
		coeffs[0] = 1.0
		return coeffs
	}

	denominator := float64(size - 1)
	for i := range size {
		coeffs[i] = a0 - a1*math.Cos(2*math.Pi*float64(i)/denominator)
	}
	return coeffs
}
