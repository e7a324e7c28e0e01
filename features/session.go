package features

import (
	"context"
	"fmt"
	"sync"
)

// Session is the command/query surface a UI layer drives: each Load replaces
// the previous file, abandoning its analysis if it is still running.
type Session struct {
	pipeline *Pipeline

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    *Result
}

// NewSession creates a session around pipeline
func NewSession(pipeline *Pipeline) *Session {
	return &Session{pipeline: pipeline}
}

// Load analyzes signal and publishes the result as Current. A Load that is
// overtaken by a newer Load or a Clear returns ErrSuperseded and publishes
// nothing.
func (s *Session) Load(ctx context.Context, signal Signal) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	gen := s.begin(cancel)
	s.mu.Unlock()

	result, err := s.pipeline.Analyze(ctx, signal)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSuperseded, err)
		}
		return nil, ErrSuperseded
	}

	s.cancel = nil
	if err != nil {
		return nil, err
	}

	s.current = result
	return result, nil
}

// Current returns the latest published result, or nil
func (s *Session) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear abandons any in-flight analysis and drops the current result
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(nil)
}

// begin starts a new generation; callers hold mu
func (s *Session) begin(cancel context.CancelFunc) uint64 {
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.cancel = cancel
	s.current = nil
	return s.generation
}
