package transcode

import (
	"context"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
)

func (d *Decoder) decodeMP3(ctx context.Context, r io.Reader) (*AudioData, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(r))
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w: %w", ErrUnsupportedFormat, err)
	}
	defer streamer.Close()

	sampleRate := int(format.SampleRate)
	pcm, truncated, err := d.readStream(ctx, streamer, format.NumChannels, d.frameLimit(sampleRate))
	if err != nil {
		return nil, err
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   format.NumChannels,
		BitDepth:   format.Precision * 8,
		Truncated:  truncated,
	}, nil
}

// readStream drains s into mono PCM. A limit > 0 caps the frame count; the
// result is truncated only when the stream had frames past the limit.
func (d *Decoder) readStream(ctx context.Context, s beep.Streamer, channels, limit int) ([]float64, bool, error) {
	var pcm []float64
	if l, ok := s.(beep.StreamSeeker); ok && l.Len() > 0 {
		pcm = make([]float64, 0, l.Len())
	}

	samples := make([][2]float64, d.config.ChunkFrames)
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		n, ok := s.Stream(samples)
		for _, frame := range samples[:n] {
			if channels == 1 {
				pcm = append(pcm, frame[0])
			} else {
				pcm = append(pcm, (frame[0]+frame[1])/2)
			}
		}

		if limit > 0 && len(pcm) > limit {
			return pcm[:limit], true, nil
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, false, fmt.Errorf("mp3 stream: %w", err)
	}
	return pcm, false, nil
}
