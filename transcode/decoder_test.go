package transcode

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, dir string, sampleRate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(dir, "tone.wav")
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	encoder := wav.NewEncoder(out, sampleRate, 16, channels, 1)
	err = encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	require.NoError(t, err)
	require.NoError(t, encoder.Close())

	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.wav", want: FormatWAV},
		{path: "B.WAV", want: FormatWAV},
		{path: "c.wave", want: FormatWAV},
		{path: "/x/y/song.mp3", want: FormatMP3},
		{path: "track.flac", want: FormatFLAC},
		{path: "clip.ogg", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	const frames = 800
	data := make([]int, 0, frames*2)
	for i := range frames {
		// left at half scale, right silent; mono is a quarter scale
		left := 16384
		if i%2 == 1 {
			left = -16384
		}
		data = append(data, left, 0)
	}
	path := writeWAV(t, t.TempDir(), 8000, 2, data)

	got, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 8000, got.SampleRate)
	assert.Equal(t, 2, got.Channels)
	assert.Equal(t, 16, got.BitDepth)
	assert.Equal(t, FormatWAV, got.Format)
	assert.False(t, got.Truncated)
	require.Len(t, got.PCM, frames)
	assert.InDelta(t, 0.25, got.PCM[0], 1e-9)
	assert.InDelta(t, -0.25, got.PCM[1], 1e-9)
	assert.InDelta(t, 0.1, got.Duration.Seconds(), 1e-6)
}

func TestDecodeWAVMaxDuration(t *testing.T) {
	data := make([]int, 16000)
	for i := range data {
		data[i] = i % 100
	}
	path := writeWAV(t, t.TempDir(), 16000, 1, data)

	decoder := NewDecoder(&DecoderConfig{MaxDuration: 250 * time.Millisecond})
	got, err := decoder.DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, got.PCM, 4000)
	assert.True(t, got.Truncated)
	assert.InDelta(t, 99.0/32768, got.PCM[99], 1e-12)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	decoder := NewDecoder(nil)

	bogus := filepath.Join(dir, "bogus.wav")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not a RIFF header"), 0o644))
	_, err := decoder.DecodeFile(context.Background(), bogus)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = decoder.DecodeFile(context.Background(), filepath.Join(dir, "song.aiff"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = decoder.DecodeFile(context.Background(), filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = decoder.Decode(context.Background(), bytes.NewReader(nil), Format("ogg"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDownmixHelpers(t *testing.T) {
	mono := downmixInterleaved([]int{255, 0, 128}, 1, 128, 128)
	assert.Equal(t, []float64{127.0 / 128, -1, 0}, mono)

	planar := downmixPlanar(nil, [][]int32{{100, -100}, {300, 100}}, 100)
	assert.Equal(t, []float64{2, 0}, planar)

	assert.Equal(t, 32768.0, fullScaleFor(16))
	assert.Equal(t, 8388608.0, fullScaleFor(24))
}

func TestNewDecoderCopiesConfig(t *testing.T) {
	cfg := &DecoderConfig{MaxDuration: time.Second}
	decoder := NewDecoder(cfg)

	assert.Zero(t, cfg.ChunkFrames, "caller config is left alone")
	assert.Equal(t, DefaultDecoderConfig().ChunkFrames, decoder.config.ChunkFrames)

	cfg.MaxDuration = time.Minute
	assert.Equal(t, time.Second, decoder.config.MaxDuration)
}

func TestDecodeWAVZeroSampleRate(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 0, 1, make([]int, 64))

	got, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, got)
}

func TestFrameLimit(t *testing.T) {
	tests := []struct {
		maxDuration time.Duration
		sampleRate  int
		want        int
	}{
		{maxDuration: 0, sampleRate: 8000, want: 0},
		{maxDuration: time.Second, sampleRate: 0, want: 0},
		{maxDuration: 64 * time.Millisecond, sampleRate: 8000, want: 512},
		{maxDuration: 250 * time.Millisecond, sampleRate: 44100, want: 11025},
		{maxDuration: time.Nanosecond, sampleRate: 8000, want: 1},
		{maxDuration: 90 * time.Minute, sampleRate: 48000, want: 90 * 60 * 48000},
	}

	for _, tt := range tests {
		decoder := NewDecoder(&DecoderConfig{MaxDuration: tt.maxDuration})
		assert.Equal(t, tt.want, decoder.frameLimit(tt.sampleRate), "%v at %d Hz", tt.maxDuration, tt.sampleRate)
	}
}
