package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryStatistics(t *testing.T) {
	data := []float64{1, -3, 2}

	assert.InDelta(t, 0, Mean(data), 1e-12)
	assert.InDelta(t, math.Sqrt(14.0/3), RMS(data), 1e-12)
	assert.Equal(t, 3.0, Peak(data))
	assert.Equal(t, 0.0, Peak(nil))
	assert.Equal(t, 0.0, RMS(nil))

	assert.Equal(t, 7.0, MatrixMax([][]float64{{1, 2}, {}, {7, -1}}))
	assert.True(t, math.IsInf(MatrixMax(nil), -1))
}

func TestMovingAverage(t *testing.T) {
	data := []float64{0, 3, 6, 9}

	assert.Equal(t, data, MovingAverage(data, 1))
	assert.Equal(t, []float64{1.5, 3, 6, 7.5}, MovingAverage(data, 3))
	assert.Empty(t, MovingAverage(nil, 5))
}

func TestResampleLengthAndRate(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 50 * float64(i) / 8000)
	}

	for _, q := range []ResampleQuality{ResampleLinear, ResampleCubic} {
		r := NewResampler(q)
		assert.Equal(t, q, r.Quality())

		down, err := r.Resample(signal, 8000, 4000)
		require.NoError(t, err)
		assert.Len(t, down, 500)

		up, err := r.Resample(signal, 8000, 16000)
		require.NoError(t, err)
		assert.Len(t, up, 2000)

		// a slow sine survives the round trip closely
		for i := 100; i < 400; i++ {
			assert.InDelta(t, signal[2*i], down[i], 0.05)
		}
	}
}

func TestResampleEdgeCases(t *testing.T) {
	r := NewResampler("nonsense")
	assert.Equal(t, ResampleLinear, r.Quality())

	signal := []float64{1, 2, 3}
	same, err := r.Resample(signal, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, signal, same)
	same[0] = 9
	assert.Equal(t, 1.0, signal[0])

	_, err = r.Resample(signal, 0, 100)
	assert.ErrorIs(t, err, ErrUnsupportedSampleRate)
	_, err = r.Resample(signal, 100, -1)
	assert.ErrorIs(t, err, ErrUnsupportedSampleRate)
	_, err = r.Resample(nil, 100, 50)
	assert.ErrorIs(t, err, ErrInvalidLength)

	tiny, err := r.Resample([]float64{5}, 48000, 8000)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, tiny)
}

func TestCubicInterpolatesThroughKnots(t *testing.T) {
	data := []float64{0, 1, 4, 9, 16}
	for i, v := range data {
		assert.InDelta(t, v, cubicAt(data, float64(i)), 1e-12)
	}
	assert.InDelta(t, 2.5, linearAt(data, 1.5), 1e-12)
}
