package transcode

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

func (d *Decoder) decodeFLAC(ctx context.Context, r io.Reader) (*AudioData, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac decode: %w: %w", ErrUnsupportedFormat, err)
	}
	defer stream.Close()

	info := stream.Info
	sampleRate := int(info.SampleRate)
	bitDepth := int(info.BitsPerSample)
	if sampleRate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("flac stream info %d Hz %d bit: %w", sampleRate, bitDepth, ErrUnsupportedFormat)
	}

	fullScale := fullScaleFor(bitDepth)
	limit := d.frameLimit(sampleRate)

	var pcm []float64
	if info.NSamples > 0 {
		pcm = make([]float64, 0, int(info.NSamples))
	}

	planes := make([][]int32, int(info.NChannels))
	truncated := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame: %w", err)
		}

		planes = planes[:0]
		for _, sub := range frame.Subframes {
			planes = append(planes, sub.Samples)
		}
		pcm = downmixPlanar(pcm, planes, fullScale)

		if limit > 0 && len(pcm) > limit {
			truncated = true
			pcm = pcm[:limit]
			break
		}
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   int(info.NChannels),
		BitDepth:   bitDepth,
		Truncated:  truncated,
	}, nil
}
