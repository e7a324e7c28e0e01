package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Peak returns the largest absolute sample value
func Peak(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Max(data)), math.Abs(floats.Min(data)))
}

// MatrixMax returns the largest value across all rows of a matrix
func MatrixMax(matrix [][]float64) float64 {
	peak := math.Inf(-1)
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		peak = math.Max(peak, floats.Max(row))
	}
	return peak
}

// MovingAverage smooths data with a centered box filter of the given width.
// Edges average over the samples that exist.
func MovingAverage(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 1 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	prefix := make([]float64, len(data)+1)
	for i, v := range data {
		prefix[i+1] = prefix[i] + v
	}

	half := windowSize / 2
	smoothed := make([]float64, len(data))
	for i := range data {
		lo := max(i-half, 0)
		hi := min(i-half+windowSize, len(data))
		smoothed[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}

	return smoothed
}
