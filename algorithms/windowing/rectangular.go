package windowing

// Rectangular is the boxcar window; frames pass through unchanged
type Rectangular struct {
	table
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	return &Rectangular{table{kind: TypeRectangular, coefficients: cosineSum(size, 1.0, 0.0)}}
}
