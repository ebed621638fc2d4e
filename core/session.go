package core

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

// Session owns one terminal transcript. Submissions are serialized: a
// submission holds the session for its whole Processing phase and any
// concurrent Submit waits until it has appended its lines.
type Session struct {
	id      schema.SessionID
	cfg     SessionConfig
	sink    EventSink
	mu      sync.Mutex
	state   State
	history *inputHistory
	busy    atomic.Bool
	closed  atomic.Bool
}

// NewSession opens a session seeded with the configured banner.
func NewSession(cfg SessionConfig, deps SessionDeps) *Session {
	id := deps.ID
	if id == "" {
		id = newSessionID()
	}
	return &Session{
		id:      id,
		cfg:     cfg,
		sink:    deps.EventSink,
		state:   NewState(cfg),
		history: newInputHistory(deps.HistoryMax),
	}
}

// ID returns the session identifier.
func (s *Session) ID() schema.SessionID { return s.id }

// Prompt returns the prompt shown before input.
func (s *Session) Prompt() string { return s.cfg.Prompt }

// Commands lists the recognized commands.
func (s *Session) Commands() []string { return s.cfg.Table.Names() }

// Submit resolves raw against the command table and returns the resulting
// snapshot. Whitespace-only input is ignored and leaves the input buffer
// as it was. A closed session ignores every submission.
func (s *Session) Submit(ctx context.Context, raw string) schema.TerminalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, raw)
}

// SubmitInput submits the current input buffer.
func (s *Session) SubmitInput(ctx context.Context) schema.TerminalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, s.state.Input)
}

func (s *Session) submitLocked(ctx context.Context, raw string) schema.TerminalSnapshot {
	if !s.closed.Load() {
		s.process(ctx, raw)
	}
	return s.snapshotLocked()
}

func (s *Session) process(ctx context.Context, raw string) {
	s.busy.Store(true)
	defer s.busy.Store(false)

	next, event, accepted := submit(s.cfg, s.state, raw)
	if !accepted {
		return
	}
	s.state = next
	s.history.record(raw)

	cmd := schema.NormalizeCommand(raw)
	_, known := s.cfg.Table.Lookup(cmd)
	logx.WithSession(ctx, s.id).Debug("terminal command", "command", cmd, "known", known, "reset", event.Reset)

	if s.sink != nil {
		event.SessionID = s.id
		s.sink.OnTranscript(event)
	}
}

// SetInput replaces the uncommitted input line.
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.state.Input = input
}

// Input returns the uncommitted input line.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Input
}

// State returns a deep copy of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Transcript: slices.Clone(s.state.Transcript), Input: s.state.Input}
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []schema.Line {
	return s.State().Transcript
}

// Snapshot returns a transport view of the session.
func (s *Session) Snapshot() schema.TerminalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Attach runs fn and returns a snapshot without letting a submission slip
// in between. Transcript events are published under the same lock, so a
// subscriber registered by fn sees exactly the events after the snapshot.
func (s *Session) Attach(fn func()) schema.TerminalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		fn()
	}
	return s.snapshotLocked()
}

// History returns accepted inputs, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.lines()
}

// Status reports Idle, Processing or Closed without waiting for a
// submission in progress.
func (s *Session) Status() schema.SessionStatus {
	switch {
	case s.closed.Load():
		return schema.SessionClosed
	case s.busy.Load():
		return schema.SessionProcessing
	default:
		return schema.SessionIdle
	}
}

// Close discards the session. It reports false when already closed.
func (s *Session) Close() bool {
	return s.closed.CompareAndSwap(false, true)
}

func (s *Session) snapshotLocked() schema.TerminalSnapshot {
	return schema.TerminalSnapshot{
		ID:         s.id,
		Prompt:     s.cfg.Prompt,
		Transcript: slices.Clone(s.state.Transcript),
		Input:      s.state.Input,
		Status:     s.Status(),
	}
}
