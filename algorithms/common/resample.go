package common

import (
	"fmt"
	"math"
)

// ResampleQuality selects the interpolation kernel used by the Resampler
type ResampleQuality string

const (
	ResampleLinear ResampleQuality = "linear"
	ResampleCubic  ResampleQuality = "cubic"
)

// Resampler converts a buffered signal between sample rates by fractional-index
// interpolation. Downsampling runs a moving-average pre-filter sized to the
// decimation ratio to keep the worst of the aliasing out.
type Resampler struct {
	quality ResampleQuality
}

// NewResampler creates a new resampler. Unknown qualities fall back to linear.
func NewResampler(quality ResampleQuality) *Resampler {
	switch quality {
	case ResampleLinear, ResampleCubic:
	default:
		quality = ResampleLinear
	}
	return &Resampler{quality: quality}
}

// Quality returns the interpolation kernel in use
func (r *Resampler) Quality() ResampleQuality {
	return r.quality
}

// Resample returns a new buffer holding signal converted from originalRate to
// targetRate. The input is never modified.
func (r *Resampler) Resample(signal []float64, originalRate, targetRate int) ([]float64, error) {
	if originalRate <= 0 {
		return nil, fmt.Errorf("source rate %d: %w", originalRate, ErrUnsupportedSampleRate)
	}
	if targetRate <= 0 {
		return nil, fmt.Errorf("target rate %d: %w", targetRate, ErrUnsupportedSampleRate)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("resample: %w", ErrInvalidLength)
	}

	if originalRate == targetRate {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out, nil
	}

	ratio := float64(originalRate) / float64(targetRate)
	newLength := int(math.Round(float64(len(signal)) / ratio))
	newLength = max(newLength, 1)

	source := signal
	if ratio > 1 {
		source = MovingAverage(signal, int(math.Ceil(ratio)))
	}

	resampled := make([]float64, newLength)
	for i := range resampled {
		pos := float64(i) * ratio
		if r.quality == ResampleCubic {
			resampled[i] = cubicAt(source, pos)
		} else {
			resampled[i] = linearAt(source, pos)
		}
	}

	return resampled, nil
}

func linearAt(data []float64, index float64) float64 {
	if index <= 0 {
		return data[0]
	}
	last := len(data) - 1
	if index >= float64(last) {
		return data[last]
	}

	i := int(index)
	frac := index - float64(i)
	return data[i] + frac*(data[i+1]-data[i])
}

// cubicAt evaluates a Catmull-Rom spline through the four neighbours of index
func cubicAt(data []float64, index float64) float64 {
	if len(data) < 4 {
		return linearAt(data, index)
	}

	i := int(math.Floor(index))
	frac := index - float64(i)

	at := func(k int) float64 {
		return data[min(max(k, 0), len(data)-1)]
	}

	y0, y1, y2, y3 := at(i-1), at(i), at(i+1), at(i+2)

	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return a0*frac*frac*frac + a1*frac*frac + a2*frac + y1
}
