package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

// sessionStore tracks the terminal sessions opened over HTTP and when each
// one expires. Every access slides the expiry forward by ttl.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	max      int
	now      func() time.Time
	items    map[schema.SessionID]time.Time
	onExpire func(schema.SessionID)
}

func newSessionStore(ttl time.Duration, max int, onExpire func(schema.SessionID)) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		items:    make(map[schema.SessionID]time.Time),
		onExpire: onExpire,
	}
}

// add starts tracking id unless the session limit is reached.
func (s *sessionStore) add(id schema.SessionID) (time.Time, error) {
	s.mu.Lock()
	if s.max > 0 && len(s.items) >= s.max {
		s.mu.Unlock()
		return time.Time{}, schema.ErrTooManySessions
	}
	expires := s.now().Add(s.ttl)
	s.items[id] = expires
	count := len(s.items)
	s.mu.Unlock()
	logx.WithSession(context.Background(), id).Debug("http session tracked", "expires", expires.Format(time.RFC3339), "open", count)
	return expires, nil
}

// touch reports whether id is a live HTTP session and extends its expiry.
// An expired session is dropped and handed to onExpire.
func (s *sessionStore) touch(id schema.SessionID) bool {
	s.mu.Lock()
	expires, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	now := s.now()
	if now.After(expires) {
		delete(s.items, id)
		s.mu.Unlock()
		s.expire(id)
		return false
	}
	s.items[id] = now.Add(s.ttl)
	s.mu.Unlock()
	return true
}

func (s *sessionStore) remove(id schema.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// sweep expires every session past its deadline and returns how many were
// dropped.
func (s *sessionStore) sweep() int {
	s.mu.Lock()
	now := s.now()
	var expired []schema.SessionID
	for id, expires := range s.items {
		if now.After(expires) {
			expired = append(expired, id)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
	for _, id := range expired {
		s.expire(id)
	}
	return len(expired)
}

// janitor sweeps on every interval until ctx is done.
func (s *sessionStore) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logx.Ctx(ctx).Debug("http sessions swept", "expired", n)
			}
		}
	}
}

func (s *sessionStore) expire(id schema.SessionID) {
	logx.WithSession(context.Background(), id).Info("http session expired")
	if s.onExpire != nil {
		s.onExpire(id)
	}
}
