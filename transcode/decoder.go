// Package transcode decodes audio files into mono float64 PCM suitable for
// analysis.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-vista/logging"
)

// ErrUnsupportedFormat is returned for containers or encodings the decoder
// does not understand
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Format identifies an audio container
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
)

// FormatFromPath picks the container from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatWAV, FormatMP3, FormatFLAC:
		return Format(ext), nil
	case "wave":
		return FormatWAV, nil
	}
	return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
}

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channel count of the source
	Duration   time.Duration `json:"duration"`
	Format     Format        `json:"format"`
	BitDepth   int           `json:"bit_depth,omitempty"`
	Truncated  bool          `json:"truncated,omitempty"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration"` // 0 means no limit
	ChunkFrames int           `json:"chunk_frames"` // frames read per step for streaming codecs
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
		ChunkFrames: 4096,
	}
}

// Decoder turns audio files into mono PCM
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	cfg := *config
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = DefaultDecoderConfig().ChunkFrames
	}
	return &Decoder{
		config: &cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeFile decodes the file at path, choosing the codec from its extension
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	logger := d.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": path,
	})

	format, err := FormatFromPath(path)
	if err != nil {
		logger.Error(err, "Cannot decode file")
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	return d.Decode(ctx, file, format)
}

// Decode reads a whole stream of the given format
func (d *Decoder) Decode(ctx context.Context, r io.ReadSeeker, format Format) (*AudioData, error) {
	logger := d.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "Decode",
		"format":   string(format),
	})
	logger.Debug("Starting audio decode")

	started := time.Now()

	var (
		data *AudioData
		err  error
	)
	switch format {
	case FormatWAV:
		data, err = d.decodeWAV(ctx, r)
	case FormatMP3:
		data, err = d.decodeMP3(ctx, r)
	case FormatFLAC:
		data, err = d.decodeFLAC(ctx, r)
	default:
		err = fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		logger.Error(err, "Audio decode failed")
		return nil, err
	}

	if data.SampleRate <= 0 {
		err = fmt.Errorf("%s stream reports %d Hz: %w", format, data.SampleRate, ErrUnsupportedFormat)
		logger.Error(err, "Audio decode failed")
		return nil, err
	}
	if len(data.PCM) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s stream", format)
	}

	data.Format = format
	data.Duration = time.Duration(float64(len(data.PCM)) / float64(data.SampleRate) * float64(time.Second))

	logger.Debug("Audio decode completed", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"samples":     len(data.PCM),
		"duration":    data.Duration.Seconds(),
		"truncated":   data.Truncated,
		"decode_time": time.Since(started).Seconds(),
	})

	return data, nil
}

// frameLimit converts MaxDuration to a frame count; 0 means unlimited
func (d *Decoder) frameLimit(sampleRate int) int {
	if d.config.MaxDuration <= 0 || sampleRate <= 0 {
		return 0
	}
	whole := int64(d.config.MaxDuration/time.Second) * int64(sampleRate)
	part := int64(d.config.MaxDuration%time.Second) * int64(sampleRate) / int64(time.Second)
	return max(1, int(whole+part))
}
