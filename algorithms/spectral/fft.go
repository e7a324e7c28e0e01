package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
)

// FFT computes discrete Fourier transforms of real buffers using mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the full complex DFT of x.
// go-dsp handles all sizes in O(N log N), including non-power-of-2.
func (f *FFT) Compute(x []float64) ([]complex128, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("fft: %w", common.ErrInvalidLength)
	}
	return fft.FFTReal(x), nil
}

// PowerSpectrum returns |X[k]|^2 for the non-negative frequencies k = 0..N/2
func (f *FFT) PowerSpectrum(frame []float64) ([]float64, error) {
	coeffs, err := f.Compute(frame)
	if err != nil {
		return nil, err
	}
	return Power(coeffs, len(frame)/2+1), nil
}

// MagnitudeSpectrum returns |X[k]| for all N bins, without folding the
// conjugate-symmetric upper half
func (f *FFT) MagnitudeSpectrum(x []float64) ([]float64, error) {
	coeffs, err := f.Compute(x)
	if err != nil {
		return nil, err
	}
	return Magnitude(coeffs, len(coeffs)), nil
}

// DFT is the direct O(N^2) summation X[k] = sum x[n] e^{-2πikn/N}.
// It is the reference the fast path is validated against; do not use it on
// full-length audio.
func DFT(x []float64) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("dft: %w", common.ErrInvalidLength)
	}

	out := make([]complex128, n)
	for k := range n {
		var sum complex128
		for t, v := range x {
			// reduce k*t mod n first to keep the phase argument small
			angle := -2 * math.Pi * float64((k*t)%n) / float64(n)
			sum += complex(v, 0) * cmplx.Rect(1, angle)
		}
		out[k] = sum
	}
	return out, nil
}
