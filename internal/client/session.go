package client

import (
	"context"
	"sync"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoaded     State = "loaded"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateError      State = "error"
)

type remover interface {
	RemoveBackground(ctx context.Context, u Upload) (*Result, error)
}

// Snapshot is a consistent view of a Session.
type Snapshot struct {
	State    State
	Filename string
	Result   *Result
	Err      error
}

// Session tracks one selected file through processing. Selecting a new file
// supersedes whatever request is in flight: the older response is dropped
// when it arrives and never replaces the newer state. Abandoned requests are
// not cancelled.
type Session struct {
	remover remover

	mu     sync.Mutex
	gen    uint64
	state  State
	upload *Upload
	result *Result
	err    error
}

func NewSession(r remover) *Session {
	return &Session{
		remover: r,
		state:   StateIdle,
	}
}

// Select makes u the current file and discards any previous result.
func (s *Session) Select(u Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.upload = &u
	s.result = nil
	s.err = nil
	s.state = StateLoaded
}

// Reset returns the session to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.upload = nil
	s.result = nil
	s.err = nil
	s.state = StateIdle
}

// Process sends the current file. It returns ErrSuperseded when another
// selection happened while the request was in flight.
func (s *Session) Process(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.upload == nil {
		s.mu.Unlock()
		return nil, ErrNothingSelected
	}
	if s.state == StateProcessing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	gen := s.gen
	upload := *s.upload
	s.state = StateProcessing
	s.err = nil
	s.mu.Unlock()

	result, err := s.remover.RemoveBackground(ctx, upload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return nil, ErrSuperseded
	}

	if err != nil {
		s.state = StateError
		s.err = err
		return nil, err
	}

	s.state = StateDone
	s.result = result
	return result, nil
}

// Submit selects u and processes it.
func (s *Session) Submit(ctx context.Context, u Upload) (*Result, error) {
	s.Select(u)
	return s.Process(ctx)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:  s.state,
		Result: s.result,
		Err:    s.err,
	}
	if s.upload != nil {
		snap.Filename = s.upload.Filename
	}
	return snap
}
