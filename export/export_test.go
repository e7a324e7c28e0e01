package export

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vista/features"
	"github.com/RyanBlaney/sonido-vista/features/config"
)

func analyzedResult(t *testing.T) *features.Result {
	t.Helper()

	cfg := config.DefaultAnalysisConfig()
	cfg.FrameLength = 256
	cfg.HopLength = 64
	cfg.MelBands = 24
	cfg.MFCCCoeffs = 12
	cfg.Decibels = true

	p, err := features.NewPipeline(cfg)
	require.NoError(t, err)

	samples := make([]float64, 2000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 8000)
	}
	result, err := p.Analyze(context.Background(), features.NewSignal(samples, 8000))
	require.NoError(t, err)
	return result
}

func TestWriteReadEachCompression(t *testing.T) {
	result := analyzedResult(t)

	for _, c := range []Compression{
		CompressionNone, CompressionGzip, CompressionZstd,
		CompressionSnappy, CompressionLZ4, CompressionBrotli,
	} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, result, &Options{Compression: c}))

			got, err := Read(&buf, c)
			require.NoError(t, err)

			assert.Equal(t, result.FrameCount, got.FrameCount)
			assert.Equal(t, result.SampleRate, got.SampleRate)
			assert.Equal(t, result.Window, got.Window)
			assert.Equal(t, result.Waveform, got.Waveform)
			require.Len(t, got.MFCC, len(result.MFCC))
			assert.InDeltaSlice(t, result.MFCC[0], got.MFCC[0], 1e-12)
			assert.Len(t, got.MelSpectrogramDB, len(result.MelSpectrogramDB))
		})
	}
}

func TestCompressionShrinksOutput(t *testing.T) {
	result := analyzedResult(t)

	var plain, packed bytes.Buffer
	require.NoError(t, Write(&plain, result, nil))
	require.NoError(t, Write(&packed, result, &Options{Compression: CompressionZstd}))

	assert.Less(t, packed.Len(), plain.Len())
}

func TestUnknownCompression(t *testing.T) {
	_, err := ParseCompression("rar")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	err = Write(&bytes.Buffer{}, &features.Result{}, &Options{Compression: "rar"})
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = Read(&bytes.Buffer{}, "rar")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	assert.Equal(t, ".json.zst", c.Extension())
}

func TestWriteFileRoundTrip(t *testing.T) {
	result := analyzedResult(t)
	path := filepath.Join(t.TempDir(), "result"+CompressionGzip.Extension())

	require.NoError(t, WriteFile(path, result, &Options{Compression: CompressionGzip, Indent: true}))

	got, err := ReadFile(path, CompressionGzip)
	require.NoError(t, err)
	assert.Equal(t, result.MelFrequencies, got.MelFrequencies)
}
