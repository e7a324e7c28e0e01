package transcode

import (
	"context"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

func (d *Decoder) decodeWAV(ctx context.Context, r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %w", ErrUnsupportedFormat)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("WAV encoding %d: %w", decoder.WavAudioFormat, ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		return nil, fmt.Errorf("WAV bit depth %d: %w", bitDepth, ErrUnsupportedFormat)
	}

	// 8-bit WAV is unsigned
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	data := buf.Data
	truncated := false
	if limit := d.frameLimit(sampleRate); limit > 0 && len(data) > limit*channels {
		data = data[:limit*channels]
		truncated = true
	}

	return &AudioData{
		PCM:        downmixInterleaved(data, channels, fullScaleFor(bitDepth), offset),
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Truncated:  truncated,
	}, nil
}
