package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// LogFloor keeps log compression finite for silent bands
const LogFloor = 1e-10

// CepstralTransform turns mel band energies into MFCCs: natural log with a
// floor, then an orthonormal DCT-II truncated to the first coefficients.
type CepstralTransform struct {
	numBands        int
	numCoefficients int
	lifter          float64

	dctMatrix    [][]float64 // [coefficient][band]
	lifterWeight []float64   // nil when liftering is off
}

// NewCepstralTransform precomputes the DCT basis. lifter > 0 enables
// sinusoidal liftering 1 + (L/2)*sin(π(n+1)/L).
func NewCepstralTransform(numBands, numCoefficients int, lifter float64) (*CepstralTransform, error) {
	if numBands < 1 {
		return nil, fmt.Errorf("%d mel bands: %w", numBands, common.ErrInvalidBandCount)
	}
	if numCoefficients < 1 || numCoefficients > numBands {
		return nil, fmt.Errorf("%d coefficients from %d mel bands: %w",
			numCoefficients, numBands, common.ErrInvalidCoefficientCount)
	}

	ct := &CepstralTransform{
		numBands:        numBands,
		numCoefficients: numCoefficients,
		lifter:          lifter,
	}
	ct.createDCTMatrix()

	if lifter > 0 {
		ct.lifterWeight = make([]float64, numCoefficients)
		for n := range ct.lifterWeight {
			ct.lifterWeight[n] = 1.0 + (lifter/2.0)*math.Sin(math.Pi*float64(n+1)/lifter)
		}
	}

	return ct, nil
}

func (ct *CepstralTransform) NumBands() int        { return ct.numBands }
func (ct *CepstralTransform) NumCoefficients() int { return ct.numCoefficients }

// createDCTMatrix builds the orthonormal DCT-II basis
func (ct *CepstralTransform) createDCTMatrix() {
	m := float64(ct.numBands)
	ct.dctMatrix = make([][]float64, ct.numCoefficients)

	for k := range ct.numCoefficients {
		scale := math.Sqrt(2.0 / m)
		if k == 0 {
			scale = math.Sqrt(1.0 / m)
		}

		row := make([]float64, ct.numBands)
		for n := range ct.numBands {
			row[n] = scale * math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/m)
		}
		ct.dctMatrix[k] = row
	}
}

// Apply converts one mel spectrogram column into cepstral coefficients
func (ct *CepstralTransform) Apply(melEnergies []float64) ([]float64, error) {
	if len(melEnergies) != ct.numBands {
		return nil, fmt.Errorf("mel column has %d bands, transform expects %d: %w",
			len(melEnergies), ct.numBands, common.ErrInvalidLength)
	}

	logMel := make([]float64, ct.numBands)
	for i, e := range melEnergies {
		logMel[i] = math.Log(math.Max(e, LogFloor))
	}

	coeffs := make([]float64, ct.numCoefficients)
	for k, basis := range ct.dctMatrix {
		sum := 0.0
		for n, v := range logMel {
			sum += v * basis[n]
		}
		coeffs[k] = sum
	}

	if ct.lifterWeight != nil {
		for k := range coeffs {
			coeffs[k] *= ct.lifterWeight[k]
		}
	}

	return coeffs, nil
}

// ApplyMatrix transforms a [band][frame] mel spectrogram into a
// [coefficient][frame] MFCC matrix, column by column
func (ct *CepstralTransform) ApplyMatrix(melSpectrogram [][]float64) ([][]float64, error) {
	if len(melSpectrogram) != ct.numBands {
		return nil, fmt.Errorf("mel spectrogram has %d bands, transform expects %d: %w",
			len(melSpectrogram), ct.numBands, common.ErrInvalidLength)
	}

	numFrames := len(melSpectrogram[0])
	mfcc := make([][]float64, ct.numCoefficients)
	for k := range mfcc {
		mfcc[k] = make([]float64, numFrames)
	}

	column := make([]float64, ct.numBands)
	for t := range numFrames {
		for b, row := range melSpectrogram {
			if len(row) != numFrames {
				return nil, fmt.Errorf("mel band %d has %d frames, expected %d: %w",
					b, len(row), numFrames, common.ErrInvalidLength)
			}
			column[b] = row[t]
		}

		coeffs, err := ct.Apply(column)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
		for k, c := range coeffs {
			mfcc[k][t] = c
		}
	}

	return mfcc, nil
}
