package core

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

// Registry tracks the open terminal sessions of one host. Sessions never
// share state; the registry only maps ids to owners.
type Registry struct {
	cfg      SessionConfig
	sink     EventSink
	logger   pslog.Logger
	max      int
	mu       sync.Mutex
	sessions map[schema.SessionID]*Session
}

// NewRegistry returns an empty registry opening sessions with cfg.
func NewRegistry(cfg SessionConfig, deps RegistryDeps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Registry{
		cfg:      cfg,
		sink:     deps.EventSink,
		logger:   logger,
		max:      deps.MaxSessions,
		sessions: make(map[schema.SessionID]*Session),
	}
}

// Config returns the session configuration.
func (r *Registry) Config() SessionConfig { return r.cfg }

// Open creates a fresh session seeded with the banner.
func (r *Registry) Open(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		r.logger.Warn("terminal session limit reached", "max", r.max)
		return nil, schema.ErrTooManySessions
	}
	sess := NewSession(r.cfg, SessionDeps{EventSink: r.sink})
	r.sessions[sess.ID()] = sess
	logx.WithSession(ctx, sess.ID()).Info("terminal session opened", "open", len(r.sessions))
	return sess, nil
}

// Get returns an open session.
func (r *Registry) Get(id schema.SessionID) (*Session, error) {
	if err := schema.ValidateSessionID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, schema.ErrSessionNotFound
	}
	return sess, nil
}

// Close discards a session. Its transcript is not kept anywhere.
func (r *Registry) Close(ctx context.Context, id schema.SessionID) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	open := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return schema.ErrSessionNotFound
	}
	sess.Close()
	if r.sink != nil {
		r.sink.OnSessionClosed(id)
	}
	logx.WithSession(ctx, id).Info("terminal session closed", "open", open)
	return nil
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// IDs returns the ids of open sessions.
func (r *Registry) IDs() []schema.SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}
