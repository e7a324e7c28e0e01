package windowing

import (
	"fmt"
	"iter"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// Framer slices a signal into overlapping, windowed analysis frames.
// Frames start at 0, hop, 2*hop, ... for as long as a whole frame fits;
// trailing samples that cannot fill a frame are dropped.
type Framer struct {
	frameLength int
	hopLength   int
	window      Window
}

// NewFramer creates a framer. A nil window selects Hann.
func NewFramer(frameLength, hopLength int, window Window) (*Framer, error) {
	if frameLength <= 0 {
		return nil, fmt.Errorf("frame length %d: %w", frameLength, common.ErrInvalidFrameLength)
	}
	if hopLength <= 0 || hopLength > frameLength {
		return nil, fmt.Errorf("hop length %d with frame length %d: %w", hopLength, frameLength, common.ErrInvalidHop)
	}

	if window == nil {
		window = NewHann(frameLength)
	}
	if window.Size() != frameLength {
		return nil, fmt.Errorf("window size (%d) doesn't match frame length (%d): %w",
			window.Size(), frameLength, common.ErrInvalidLength)
	}

	return &Framer{
		frameLength: frameLength,
		hopLength:   hopLength,
		window:      window,
	}, nil
}

// FrameCount returns floor((signalLength-frameLength)/hopLength)+1, or 0 when
// the signal cannot hold a single frame.
func FrameCount(signalLength, frameLength, hopLength int) int {
	if frameLength <= 0 || hopLength <= 0 || signalLength < frameLength {
		return 0
	}
	return (signalLength-frameLength)/hopLength + 1
}

func (f *Framer) FrameLength() int { return f.frameLength }
func (f *Framer) HopLength() int   { return f.hopLength }
func (f *Framer) Window() Window   { return f.window }

// Offset returns the first sample index of frame i
func (f *Framer) Offset(i int) int {
	return i * f.hopLength
}

// Count returns the number of frames the signal yields
func (f *Framer) Count(signalLength int) (int, error) {
	if signalLength < f.frameLength {
		return 0, fmt.Errorf("signal length %d < frame length %d: %w",
			signalLength, f.frameLength, common.ErrSignalTooShort)
	}
	return FrameCount(signalLength, f.frameLength, f.hopLength), nil
}

// WindowInto copies frame i of signal into dst and applies the window.
// dst must hold exactly one frame. The signal is not modified.
func (f *Framer) WindowInto(dst, signal []float64, i int) error {
	if len(dst) != f.frameLength {
		return fmt.Errorf("frame buffer length %d: %w", len(dst), common.ErrInvalidLength)
	}

	start := f.Offset(i)
	end := start + f.frameLength
	if i < 0 || end > len(signal) {
		return fmt.Errorf("frame %d [%d:%d] exceeds signal length %d: %w",
			i, start, end, len(signal), common.ErrSignalTooShort)
	}

	copy(dst, signal[start:end])
	return f.window.ApplyInPlace(dst)
}

// Frames returns a lazy sequence of (frame index, windowed frame) pairs.
// Every yielded frame is a fresh buffer owned by the consumer.
func (f *Framer) Frames(signal []float64) (iter.Seq2[int, []float64], error) {
	count, err := f.Count(len(signal))
	if err != nil {
		return nil, err
	}

	return func(yield func(int, []float64) bool) {
		for i := range count {
			frame := make([]float64, f.frameLength)
			// bounds were checked by Count
			_ = f.WindowInto(frame, signal, i)
			if !yield(i, frame) {
				return
			}
		}
	}, nil
}
