package windowing

// Hann is the symmetric Hann window w[i] = 0.5 - 0.5*cos(2πi/(N-1)),
// the default taper for spectrogram frames.
type Hann struct {
	table
}

// NewHann creates a new Hann window
func NewHann(size int) *Hann {
	return &Hann{table{kind: TypeHann, coefficients: cosineSum(size, 0.5, 0.5)}}
}
