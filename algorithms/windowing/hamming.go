package windowing

// Hamming is the symmetric Hamming window 0.54 - 0.46*cos(2πi/(N-1))
type Hamming struct {
	table
}

// NewHamming creates a new Hamming window
func NewHamming(size int) *Hamming {
	return &Hamming{table{kind: TypeHamming, coefficients: cosineSum(size, 0.54, 0.46)}}
}
