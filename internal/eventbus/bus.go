package eventbus

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/schema"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventTranscript carries lines appended to a terminal transcript.
	EventTranscript EventType = "transcript"
	// EventClosed marks the end of a terminal session.
	EventClosed EventType = "closed"
)

// Event represents a transport-facing event emitted by terminal sessions.
type Event struct {
	Type       EventType
	SessionID  schema.SessionID
	Transcript schema.TranscriptEvent
}

// Bus fans out events to per-session subscribers. It satisfies
// core.EventSink.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.SessionID]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.SessionID]map[chan Event]struct{}),
		log:   logger,
		depth: 64,
	}
}

// Subscribe registers a subscriber for the session and returns a channel
// and a cancel func. Cancel is idempotent.
func (b *Bus) Subscribe(id schema.SessionID) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	sessionSubs := b.subs[id]
	if sessionSubs == nil {
		sessionSubs = make(map[chan Event]struct{})
		b.subs[id] = sessionSubs
	}
	sessionSubs[ch] = struct{}{}
	count := len(sessionSubs)
	b.mu.Unlock()
	b.log.With("session", id).Debug("eventbus subscribe", "subs", count)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			if b.remove(id, ch) {
				close(ch)
			}
			b.log.With("session", id).Debug("eventbus unsubscribe")
		})
	}
}

// Subscribers reports how many subscribers a session has.
func (b *Bus) Subscribers(id schema.SessionID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[id])
}

// OnTranscript publishes a transcript event.
func (b *Bus) OnTranscript(event schema.TranscriptEvent) {
	b.publish(event.SessionID, Event{Type: EventTranscript, SessionID: event.SessionID, Transcript: event})
}

// OnSessionClosed publishes a final event and closes every subscriber of
// the session.
func (b *Bus) OnSessionClosed(id schema.SessionID) {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	for sub := range subs {
		select {
		case sub <- Event{Type: EventClosed, SessionID: id}:
		default:
		}
		close(sub)
	}
}

func (b *Bus) remove(id schema.SessionID, ch chan Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[id]
	if _, ok := subs[ch]; !ok {
		return false
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(b.subs, id)
	}
	return true
}

func (b *Bus) publish(id schema.SessionID, event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := 0
	for sub := range b.subs[id] {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.log.With("session", id).Trace("eventbus dropped", "count", dropped)
	}
}
