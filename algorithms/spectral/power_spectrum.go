package spectral

import "math/cmplx"

// Power returns |X[k]|^2 for the first bins coefficients
func Power(coeffs []complex128, bins int) []float64 {
	bins = min(bins, len(coeffs))

	power := make([]float64, bins)
	for k, c := range coeffs[:bins] {
		re, im := real(c), imag(c)
		power[k] = re*re + im*im
	}
	return power
}

// Magnitude returns |X[k]| for the first bins coefficients
func Magnitude(coeffs []complex128, bins int) []float64 {
	bins = min(bins, len(coeffs))

	magnitude := make([]float64, bins)
	for k, c := range coeffs[:bins] {
		magnitude[k] = cmplx.Abs(c)
	}
	return magnitude
}

// BinFrequency returns the centre frequency in Hz of bin k for an n-point transform
func BinFrequency(k, n, sampleRate int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(k) * float64(sampleRate) / float64(n)
}
