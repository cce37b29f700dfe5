package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNoMesh is returned when an operation needs a loaded mesh and the
// session has none.
var ErrNoMesh = errors.New("no mesh loaded")

// ErrSuperseded is returned by Load when a newer Load or Clear started
// while it was analyzing. Its result is discarded.
var ErrSuperseded = errors.New("upload superseded by a newer one")

// Session holds the current Report for one user. Every Load replaces the
// report wholesale and starts a new generation; work bound to an older
// generation (a running recommendation stream) is cancelled. Session is
// safe for concurrent use.
type Session struct {
	ID uuid.UUID

	analyze func(name string, data []byte) (*Report, error)

	mu         sync.Mutex
	report     *Report
	generation uint64
	uploads    uint64 // bumped by every Load and Clear
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewSession creates an empty session using a for the pipeline.
func NewSession(a *Analyzer) *Session {
	if a == nil {
		a = &Analyzer{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:      uuid.New(),
		analyze: a.Analyze,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load analyzes a new upload. Whether or not it succeeds, the previous
// report is discarded and its generation cancelled; on failure the session
// is left empty. If another Load or Clear starts before this one finishes,
// the result is dropped without touching the session and ErrSuperseded is
// returned.
func (s *Session) Load(name string, data []byte) (*Report, error) {
	s.mu.Lock()
	s.uploads++
	ticket := s.uploads
	s.mu.Unlock()

	r, err := s.analyze(name, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.uploads {
		return nil, fmt.Errorf("%s: %w", name, ErrSuperseded)
	}
	s.advance()
	if err != nil {
		s.report = nil
		return nil, err
	}
	s.report = r
	return r, nil
}

// Clear drops the current report.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	s.advance()
	s.report = nil
}

// advance cancels the current generation and starts the next one.
// s.mu must be held.
func (s *Session) advance() {
	s.cancel()
	s.generation++
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

// Current returns the loaded report and its generation.
func (s *Session) Current() (*Report, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil, s.generation, ErrNoMesh
	}
	return s.report, s.generation, nil
}

// IsCurrent reports whether gen is still the live generation.
func (s *Session) IsCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// Bind derives a context from parent that is also cancelled when the
// session moves past the current generation. It returns the report the
// context is bound to.
func (s *Session) Bind(parent context.Context) (context.Context, context.CancelFunc, *Report, error) {
	s.mu.Lock()
	r, genCtx := s.report, s.ctx
	s.mu.Unlock()
	if r == nil {
		return nil, nil, nil, ErrNoMesh
	}

	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(genCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, r, nil
}

// Close cancels any work bound to the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}
