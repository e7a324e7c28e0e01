package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// DecibelScaler converts power-like matrices to decibels relative to their
// peak: 10*log10(max(S, Amin)/max(S)), floored TopDB below the peak.
type DecibelScaler struct {
	Amin  float64
	TopDB float64 // <= 0 disables the floor
}

// NewDecibelScaler creates a scaler with the usual amin of 1e-10
func NewDecibelScaler(topDB float64) *DecibelScaler {
	return &DecibelScaler{Amin: LogFloor, TopDB: topDB}
}

// PowerToDB returns a new matrix in dB; the input is not modified
func (d *DecibelScaler) PowerToDB(power [][]float64) [][]float64 {
	ref := math.Max(common.MatrixMax(power), d.Amin)
	refDB := 10 * math.Log10(ref)

	db := make([][]float64, len(power))
	peak := math.Inf(-1)
	for i, row := range power {
		db[i] = make([]float64, len(row))
		for j, v := range row {
			db[i][j] = 10*math.Log10(math.Max(v, d.Amin)) - refDB
			peak = math.Max(peak, db[i][j])
		}
	}

	if d.TopDB > 0 {
		floor := peak - d.TopDB
		for _, row := range db {
			for j, v := range row {
				row[j] = math.Max(v, floor)
			}
		}
	}

	return db
}
