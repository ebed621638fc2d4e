package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

// Stream event types.
const (
	streamSnapshot   = "snapshot"
	streamTranscript = "transcript"
	streamClosed     = "closed"
)

// StreamEvent is sent to SSE clients following a terminal session.
type StreamEvent struct {
	Seq       uint64                   `json:"seq"`
	Type      string                   `json:"type"`
	SessionID schema.SessionID         `json:"session_id"`
	Lines     []schema.Line            `json:"lines,omitempty"`
	Reset     bool                     `json:"reset,omitempty"`
	Snapshot  *schema.TerminalSnapshot `json:"snapshot,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// Hub keeps a numbered event history per registered session and fans
// events out to stream subscribers. Events for sessions that were never
// registered are ignored.
type Hub struct {
	mu          sync.Mutex
	sessions    map[schema.SessionID]*sessionHub
	historySize int
}

// NewHub constructs a hub with the given history size.
func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = 1000
	}
	return &Hub{
		sessions:    make(map[schema.SessionID]*sessionHub),
		historySize: historySize,
	}
}

// Register starts recording events for a session.
func (h *Hub) Register(id schema.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[id] == nil {
		h.sessions[id] = &sessionHub{subs: make(map[chan StreamEvent]struct{})}
	}
}

// OnTranscript implements core.EventSink.
func (h *Hub) OnTranscript(event schema.TranscriptEvent) {
	logx.WithSession(context.Background(), event.SessionID).Trace("hub transcript event", "lines", len(event.Lines), "reset", event.Reset)
	h.publish(event.SessionID, StreamEvent{
		Type:      streamTranscript,
		SessionID: event.SessionID,
		Lines:     event.Lines,
		Reset:     event.Reset,
		Timestamp: time.Now(),
	})
}

// OnSessionClosed implements core.EventSink. Subscribers receive a final
// closed event and their channels are closed; the history is dropped.
func (h *Hub) OnSessionClosed(id schema.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.sessions[id]
	if sh == nil {
		return
	}
	delete(h.sessions, id)
	sh.seq++
	event := StreamEvent{Seq: sh.seq, Type: streamClosed, SessionID: id, Timestamp: time.Now()}
	for sub := range sh.subs {
		select {
		case sub <- event:
		default:
		}
		close(sub)
		delete(sh.subs, sub)
	}
	logx.WithSession(context.Background(), id).Debug("hub session closed")
}

// Subscribe registers a stream subscriber. It returns the events recorded
// after seq "after" and reports whether that replay is complete; it is not
// when the history no longer reaches back that far. ok is false for
// unknown sessions.
func (h *Hub) Subscribe(id schema.SessionID, after uint64) (ch <-chan StreamEvent, unsub func(), replay []StreamEvent, complete bool, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.sessions[id]
	if sh == nil {
		return nil, func() {}, nil, false, false
	}
	sub := make(chan StreamEvent, 256)
	sh.subs[sub] = struct{}{}
	replay, complete = sh.since(after)
	log := logx.WithSession(context.Background(), id)
	log.Info("hub subscribe", "subs", len(sh.subs), "replay", len(replay))
	var once sync.Once
	unsub = func() {
		once.Do(func() {
			h.mu.Lock()
			if _, live := sh.subs[sub]; live {
				delete(sh.subs, sub)
				close(sub)
			}
			remaining := len(sh.subs)
			h.mu.Unlock()
			log.Info("hub unsubscribe", "subs", remaining)
		})
	}
	return sub, unsub, replay, complete, true
}

// Seq returns the last assigned sequence number of a session.
func (h *Hub) Seq(id schema.SessionID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sh := h.sessions[id]; sh != nil {
		return sh.seq
	}
	return 0
}

// Replay returns events after the provided seq.
func (h *Hub) Replay(id schema.SessionID, after uint64) []StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.sessions[id]
	if sh == nil {
		return nil
	}
	events, _ := sh.since(after)
	logx.WithSession(context.Background(), id).Debug("hub replay", "after", after, "count", len(events))
	return events
}

func (h *Hub) publish(id schema.SessionID, event StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.sessions[id]
	if sh == nil {
		return
	}
	sh.seq++
	event.Seq = sh.seq
	sh.history = append(sh.history, event)
	if len(sh.history) > h.historySize {
		sh.history = sh.history[len(sh.history)-h.historySize:]
	}
	dropped := 0
	for sub := range sh.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		logx.WithSession(context.Background(), id).Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}

type sessionHub struct {
	seq     uint64
	history []StreamEvent
	subs    map[chan StreamEvent]struct{}
}

func (sh *sessionHub) since(after uint64) ([]StreamEvent, bool) {
	if after >= sh.seq {
		return nil, true
	}
	complete := len(sh.history) > 0 && sh.history[0].Seq <= after+1
	events := make([]StreamEvent, 0, len(sh.history))
	for _, event := range sh.history {
		if event.Seq > after {
			events = append(events, event)
		}
	}
	return events, complete
}
