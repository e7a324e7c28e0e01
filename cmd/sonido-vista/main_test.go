package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vista/export"
	"github.com/RyanBlaney/sonido-vista/features"
	"github.com/RyanBlaney/sonido-vista/logging"
)

func writeToneWAV(t *testing.T, path string, sampleRate, n int) {
	t.Helper()

	data := make([]int, n)
	for i := range data {
		data[i] = int(12000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestRunWritesExport(t *testing.T) {
	t.Cleanup(func() { logging.SetGlobalLogger(nil) })

	dir := t.TempDir()
	input := filepath.Join(dir, "tone.wav")
	writeToneWAV(t, input, 16000, 16000)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-sr", "8000",
		"-n-fft", "512",
		"-n-mels", "40",
		"-n-mfcc", "13",
		"-compression", "gzip",
		"-db",
		input,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.Contains(t, stdout.String(), "Analysis written")

	got, err := export.ReadFile(filepath.Join(dir, "tone.json.gz"), export.CompressionGzip)
	require.NoError(t, err)

	assert.Equal(t, 8000, got.SampleRate)
	assert.Equal(t, 16000, got.SourceSampleRate)
	assert.Len(t, got.Waveform, 8000)
	assert.Equal(t, (8000-512)/128+1, got.FrameCount)
	assert.Len(t, got.MFCC, 13)
	assert.Len(t, got.MelSpectrogramDB, 40)
}

func TestRunRejectsBadArguments(t *testing.T) {
	t.Cleanup(func() { logging.SetGlobalLogger(nil) })

	var stdout, stderr bytes.Buffer
	ctx := context.Background()

	assert.Error(t, run(ctx, nil, &stdout, &stderr))
	assert.ErrorIs(t, run(ctx, []string{"-compression", "rar", "x.wav"}, &stdout, &stderr), export.ErrUnknownCompression)
	assert.ErrorIs(t, run(ctx, []string{"-n-mfcc", "200", "x.wav"}, &stdout, &stderr), features.ErrInvalidCoefficientCount)
}

func TestAnalysisConfigLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"frame_length": 1024, "mel_bands": 64, "sample_rate": 0}`), 0o644))

	opts, err := parseFlags([]string{"-config", path, "-n-mfcc", "30", "song.wav"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := opts.analysisConfig()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.FrameLength)
	assert.Equal(t, 64, cfg.MelBands)
	assert.Equal(t, 30, cfg.MFCCCoeffs)
	assert.Equal(t, 0, cfg.SampleRate, "unset flags do not override the file")

	opts, err = parseFlags([]string{"song.wav"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err = opts.analysisConfig()
	require.NoError(t, err)
	assert.Equal(t, 22050, cfg.SampleRate)
	assert.Equal(t, "song.wav", opts.input)
}
