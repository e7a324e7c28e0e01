package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// HzToMel converts frequency in Hz to mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelFilterbank projects power spectra onto triangular filters whose centres
// are equally spaced on the mel scale between 0 Hz and Nyquist. Weights are
// fixed for a (sample rate, band count, bin count) triple and built once.
type MelFilterbank struct {
	sampleRate int
	numBands   int
	numBins    int

	weights [][]float64 // [band][bin]
	spans   [][2]int    // [band] -> first and last bin with non-zero support
	centers []float64   // [band] -> centre frequency in Hz
}

// NewMelFilterbank builds numBands filters over spectra of numBins bins
// (numBins = N/2+1 for an N-point transform).
func NewMelFilterbank(sampleRate, numBands, numBins int) (*MelFilterbank, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("mel filterbank sample rate %d: %w", sampleRate, common.ErrUnsupportedSampleRate)
	}
	if numBins < 1 {
		return nil, fmt.Errorf("mel filterbank with %d bins: %w", numBins, common.ErrInvalidLength)
	}
	if numBands < 1 || numBands > numBins {
		return nil, fmt.Errorf("%d mel bands over %d bins: %w", numBands, numBins, common.ErrInvalidBandCount)
	}

	nyquist := float64(sampleRate) / 2.0
	highMel := HzToMel(nyquist)

	// numBands+2 control points: each filter spans points m-1, m, m+1
	melStep := highMel / float64(numBands+1)
	hzPoints := make([]float64, numBands+2)
	binPoints := make([]int, numBands+2)
	for i := range hzPoints {
		hzPoints[i] = MelToHz(float64(i) * melStep)
		binPoints[i] = int(math.Round(hzPoints[i] / nyquist * float64(numBins-1)))
		binPoints[i] = min(max(binPoints[i], 0), numBins-1)
	}

	fb := &MelFilterbank{
		sampleRate: sampleRate,
		numBands:   numBands,
		numBins:    numBins,
		weights:    make([][]float64, numBands),
		spans:      make([][2]int, numBands),
		centers:    make([]float64, numBands),
	}

	for m := range numBands {
		left, center, right := binPoints[m], binPoints[m+1], binPoints[m+2]
		filter := make([]float64, numBins)

		for k := left; k <= right; k++ {
			switch {
			case k == center:
				filter[k] = 1.0
			case k < center:
				filter[k] = float64(k-left) / float64(center-left)
			default:
				filter[k] = float64(right-k) / float64(right-center)
			}
		}

		fb.weights[m] = filter
		fb.spans[m] = [2]int{left, right}
		fb.centers[m] = hzPoints[m+1]
	}

	return fb, nil
}

func (fb *MelFilterbank) NumBands() int   { return fb.numBands }
func (fb *MelFilterbank) NumBins() int    { return fb.numBins }
func (fb *MelFilterbank) SampleRate() int { return fb.sampleRate }

// Weights returns a copy of the [band][bin] filter weights
func (fb *MelFilterbank) Weights() [][]float64 {
	weights := make([][]float64, len(fb.weights))
	for i, w := range fb.weights {
		weights[i] = append([]float64(nil), w...)
	}
	return weights
}

// CenterFrequencies returns each band's centre frequency in Hz, for axis labels
func (fb *MelFilterbank) CenterFrequencies() []float64 {
	return append([]float64(nil), fb.centers...)
}

// Apply returns the energy of each band: sum over k of power[k]*weight[band][k]
func (fb *MelFilterbank) Apply(power []float64) ([]float64, error) {
	energies := make([]float64, fb.numBands)
	if err := fb.ApplyInto(energies, power); err != nil {
		return nil, err
	}
	return energies, nil
}

// ApplyInto writes the band energies of power into dst
func (fb *MelFilterbank) ApplyInto(dst, power []float64) error {
	if len(power) != fb.numBins {
		return fmt.Errorf("power spectrum has %d bins, filterbank expects %d: %w",
			len(power), fb.numBins, common.ErrInvalidLength)
	}
	if len(dst) != fb.numBands {
		return fmt.Errorf("output has %d slots, filterbank has %d bands: %w",
			len(dst), fb.numBands, common.ErrInvalidLength)
	}

	for m, filter := range fb.weights {
		sum := 0.0
		for k := fb.spans[m][0]; k <= fb.spans[m][1]; k++ {
			sum += power[k] * filter[k]
		}
		dst[m] = sum
	}
	return nil
}
