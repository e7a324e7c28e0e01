package spectral

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func TestFFTMatchesDirectDFT(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 64))
	for _, n := range []int{64, 100, 7} {
		signal := make([]float64, n)
		for i := range signal {
			signal[i] = rng.Float64()*2 - 1
		}

		fast, err := NewFFT().Compute(signal)
		require.NoError(t, err)
		direct, err := DFT(signal)
		require.NoError(t, err)
		require.Len(t, fast, n)

		for k := range direct {
			diff := cmplx.Abs(fast[k] - direct[k])
			assert.LessOrEqualf(t, diff, 1e-6*cmplx.Abs(direct[k])+1e-9,
				"n=%d bin %d: fast=%v direct=%v", n, k, fast[k], direct[k])
		}
	}
}

func TestFFTZeroLength(t *testing.T) {
	f := NewFFT()

	_, err := f.Compute(nil)
	assert.ErrorIs(t, err, common.ErrInvalidLength)
	_, err = f.PowerSpectrum([]float64{})
	assert.ErrorIs(t, err, common.ErrInvalidLength)
	_, err = f.MagnitudeSpectrum(nil)
	assert.ErrorIs(t, err, common.ErrInvalidLength)
	_, err = DFT(nil)
	assert.ErrorIs(t, err, common.ErrInvalidLength)
}

func TestSinePeak(t *testing.T) {
	tests := []struct {
		name       string
		freq       float64
		sampleRate int
		n          int
	}{
		{name: "440Hz at 22050", freq: 440, sampleRate: 22050, n: 2048},
		{name: "1kHz at 44100", freq: 1000, sampleRate: 44100, n: 4096},
		{name: "odd length", freq: 3000, sampleRate: 16000, n: 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := sine(tt.freq, tt.sampleRate, tt.n)
			want := int(math.Round(tt.freq * float64(tt.n) / float64(tt.sampleRate)))

			power, err := NewFFT().PowerSpectrum(signal)
			require.NoError(t, err)
			require.Len(t, power, tt.n/2+1)
			assert.InDelta(t, want, argmax(power), 1)

			magnitude, err := NewFFT().MagnitudeSpectrum(signal)
			require.NoError(t, err)
			require.Len(t, magnitude, tt.n)
			assert.InDelta(t, want, argmax(magnitude[:tt.n/2+1]), 1)
		})
	}
}

func TestMagnitudeSpectrumIsConjugateSymmetric(t *testing.T) {
	signal := sine(50, 1000, 256)
	magnitude, err := NewFFT().MagnitudeSpectrum(signal)
	require.NoError(t, err)

	for k := 1; k < len(magnitude); k++ {
		assert.InDelta(t, magnitude[k], magnitude[len(magnitude)-k], 1e-9)
	}
}

func TestParsevalEnergy(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	signal := make([]float64, 512)
	timeEnergy := 0.0
	for i := range signal {
		signal[i] = rng.NormFloat64()
		timeEnergy += signal[i] * signal[i]
	}

	coeffs, err := NewFFT().Compute(signal)
	require.NoError(t, err)

	freqEnergy := 0.0
	for _, p := range Power(coeffs, len(coeffs)) {
		freqEnergy += p
	}
	assert.InEpsilon(t, timeEnergy, freqEnergy/float64(len(signal)), 1e-9)
}

func TestBinFrequency(t *testing.T) {
	assert.Equal(t, 0.0, BinFrequency(0, 2048, 22050))
	assert.InDelta(t, 11025.0, BinFrequency(1024, 2048, 22050), 1e-9)
	assert.Equal(t, 0.0, BinFrequency(3, 0, 22050))
}
