package spectral

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-vista/algorithms/windowing"
	"github.com/RyanBlaney/sonido-vista/logging"
)

// FrameFunc receives the power spectrum of one windowed frame. Calls for
// different frame indices may run concurrently; each index is delivered once.
type FrameFunc func(frameIdx int, power []float64) error

// STFT drives framing, windowing and per-frame FFTs across a worker pool
type STFT struct {
	fft     *FFT
	workers int
	logger  logging.Logger
}

// NewSTFT creates a new STFT calculator. workers <= 0 sizes the pool from the
// CPU count and the frame count.
func NewSTFT(workers int) *STFT {
	return &STFT{
		fft:     NewFFT(),
		workers: workers,
		logger: logging.WithFields(logging.Fields{
			"component": "stft",
		}),
	}
}

// Process computes the power spectrum of every frame the framer yields over
// signal and hands each to fn. Workers write only through fn, one frame index
// at a time, so fn can fill pre-sized per-frame slots without locking.
// The first error from any frame aborts the remaining work and is returned.
func (s *STFT) Process(ctx context.Context, signal []float64, framer *windowing.Framer, fn FrameFunc) error {
	numFrames, err := framer.Count(len(signal))
	if err != nil {
		return err
	}

	numWorkers := s.workerCount(numFrames)

	logger := s.logger.WithFields(logging.Fields{
		"function":     "Process",
		"frames":       numFrames,
		"frame_length": framer.FrameLength(),
		"hop_length":   framer.HopLength(),
		"workers":      numWorkers,
	})
	logger.Debug("Starting STFT")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan int)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frame := make([]float64, framer.FrameLength())

			for frameIdx := range jobs {
				if err := framer.WindowInto(frame, signal, frameIdx); err != nil {
					fail(fmt.Errorf("frame %d: %w", frameIdx, err))
					continue
				}

				power, err := s.fft.PowerSpectrum(frame)
				if err != nil {
					fail(fmt.Errorf("frame %d: %w", frameIdx, err))
					continue
				}

				if err := fn(frameIdx, power); err != nil {
					fail(fmt.Errorf("frame %d: %w", frameIdx, err))
				}
			}
		}()
	}

dispatch:
	for frameIdx := range numFrames {
		select {
		case jobs <- frameIdx:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		logger.Error(firstErr, "STFT aborted")
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		logger.Debug("STFT cancelled")
		return err
	}

	logger.Debug("STFT completed")
	return nil
}

// PowerSpectrogram returns the [frame][bin] power spectrogram of signal
func (s *STFT) PowerSpectrogram(ctx context.Context, signal []float64, framer *windowing.Framer) ([][]float64, error) {
	numFrames, err := framer.Count(len(signal))
	if err != nil {
		return nil, err
	}

	frames := make([][]float64, numFrames)
	err = s.Process(ctx, signal, framer, func(frameIdx int, power []float64) error {
		frames[frameIdx] = power
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// workerCount determines the number of workers based on workload
func (s *STFT) workerCount(numFrames int) int {
	if s.workers > 0 {
		return max(min(s.workers, numFrames), 1)
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(min(numCPU/2, numFrames), 1)
	}

	// For medium workloads, use most CPUs
	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
