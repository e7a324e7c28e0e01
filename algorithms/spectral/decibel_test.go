package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerToDB(t *testing.T) {
	power := [][]float64{
		{1, 0.1, 0.01},
		{1e-12, 0, 0.5},
	}

	db := NewDecibelScaler(80).PowerToDB(power)
	require.Len(t, db, 2)

	assert.InDelta(t, 0.0, db[0][0], 1e-9)
	assert.InDelta(t, -10.0, db[0][1], 1e-9)
	assert.InDelta(t, -20.0, db[0][2], 1e-9)
	// silence is clipped to 80 dB below the peak
	assert.InDelta(t, -80.0, db[1][0], 1e-9)
	assert.InDelta(t, -80.0, db[1][1], 1e-9)

	// input untouched
	assert.Equal(t, 0.1, power[0][1])
}

func TestPowerToDBWithoutFloor(t *testing.T) {
	db := NewDecibelScaler(0).PowerToDB([][]float64{{1, 0}})
	assert.InDelta(t, -100.0, db[0][1], 1e-9)
}
