// Package httpapi hosts the portfolio over JSON and server-sent events:
// content lookups, terminal sessions with live transcript streams and
// one-shot reveal streams.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

const maxBodySize = 64 << 10

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	content  content.Content
	registry *core.Registry
	hub      *Hub
	sessions *sessionStore
	basePath string
	now      func() time.Time

	mu      sync.Mutex
	baseCtx context.Context
}

// NewServer constructs an HTTP server. The registry must publish its
// events to hub for terminal streams to work.
func NewServer(cfg Config, cnt content.Content, registry *core.Registry, hub *Hub) *Server {
	cfg = cfg.withDefaults()
	if hub == nil {
		hub = NewHub(cfg.HubHistory)
	}
	s := &Server{
		cfg:      cfg,
		content:  cnt,
		registry: registry,
		hub:      hub,
		basePath: normalizeBasePath(cfg.BasePath),
		now:      time.Now,
		baseCtx:  context.Background(),
	}
	s.sessions = newSessionStore(cfg.SessionTTL, cfg.MaxSessions, s.expireSession)
	return s
}

// SetBaseContext sets the context used for work not tied to a request,
// such as expiring sessions.
func (s *Server) SetBaseContext(ctx context.Context) {
	if s == nil || ctx == nil {
		return
	}
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
}

func (s *Server) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseCtx
}

// ExpireSessions discards idle terminal sessions until ctx is done.
func (s *Server) ExpireSessions(ctx context.Context) {
	interval := min(max(s.cfg.SessionTTL/4, time.Second), time.Minute)
	s.sessions.janitor(ctx, interval)
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/content", s.handleContent)
	mux.HandleFunc("GET /api/intel/{term}", s.handleIntel)
	mux.HandleFunc("GET /api/reveal", s.handleReveal)
	mux.HandleFunc("POST /api/terminal", s.handleOpen)
	mux.HandleFunc("GET /api/terminal/{id}", s.requireSession(s.handleSnapshot))
	mux.HandleFunc("DELETE /api/terminal/{id}", s.requireSession(s.handleClose))
	mux.HandleFunc("POST /api/terminal/{id}/submit", s.requireSession(s.handleSubmit))
	mux.HandleFunc("GET /api/terminal/{id}/stream", s.requireSession(s.handleStream))
	return mountBasePath(s.basePath, withRequestLogging(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

type contentResponse struct {
	Profile  content.Profile     `json:"profile"`
	Ledger   []content.LedgerRow `json:"ledger"`
	Projects []content.Project   `json:"projects"`
	Contact  content.Contact     `json:"contact"`
	Commands []string            `json:"commands"`
	Prompt   string              `json:"prompt"`
	Version  string              `json:"version,omitempty"`
}

func (s *Server) handleContent(w http.ResponseWriter, _ *http.Request) {
	cfg := s.registry.Config()
	writeJSON(w, http.StatusOK, contentResponse{
		Profile:  s.content.Profile,
		Ledger:   s.content.Ledger,
		Projects: s.content.Projects,
		Contact:  s.content.Contact,
		Commands: cfg.Table.Names(),
		Prompt:   cfg.Prompt,
		Version:  s.cfg.Version,
	})
}

func (s *Server) handleIntel(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.PathValue("term"))
	if term == "" {
		writeError(w, http.StatusBadRequest, schema.ErrInvalidRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"term": term, "brief": s.content.Brief(term)})
}

type terminalResponse struct {
	schema.TerminalSnapshot
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	log := logx.Ctx(r.Context())
	sess, err := s.registry.Open(r.Context())
	if err != nil {
		log.Warn("http terminal open failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	id := sess.ID()
	expires, err := s.sessions.add(id)
	if err != nil {
		_ = s.registry.Close(r.Context(), id)
		log.Warn("http terminal open rejected", "err", err, "max", s.cfg.MaxSessions)
		writeError(w, statusFor(err), err)
		return
	}
	s.hub.Register(id)
	writeJSON(w, http.StatusCreated, terminalResponse{TerminalSnapshot: sess.Snapshot(), ExpiresAt: expires})
	log.Info("http terminal opened", "session", id)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request, sess *core.Session) {
	writeJSON(w, http.StatusOK, terminalResponse{TerminalSnapshot: sess.Snapshot()})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	id := sess.ID()
	s.sessions.remove(id)
	if err := s.registry.Close(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	log := logx.Ctx(r.Context())
	var payload struct {
		Input string `json:"input"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), &payload); err != nil {
		log.Warn("http submit decode failed", "err", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", schema.ErrInvalidRequest, err))
		return
	}
	snap := sess.Submit(r.Context(), payload.Input)
	if snap.Status == schema.SessionClosed {
		writeError(w, statusFor(schema.ErrSessionClosed), schema.ErrSessionClosed)
		return
	}
	if line := strings.TrimSpace(payload.Input); line != "" && !s.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "http", "command", line)
	}
	writeJSON(w, http.StatusOK, terminalResponse{TerminalSnapshot: snap})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	log := logx.Ctx(r.Context())
	id := sess.ID()
	lastID := parseUint(r.Header.Get("Last-Event-ID"))

	var (
		ch       <-chan StreamEvent
		unsub    func()
		replay   []StreamEvent
		complete bool
		seq      uint64
	)
	snap := sess.Attach(func() {
		ch, unsub, replay, complete, ok = s.hub.Subscribe(id, lastID)
		seq = s.hub.Seq(id)
	})
	if !ok {
		writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
		return
	}
	defer unsub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if lastID > 0 && complete {
		for _, event := range replay {
			_ = writeSSEvent(w, event.Seq, event)
		}
	} else {
		_ = writeSSEvent(w, seq, StreamEvent{
			Seq:       seq,
			Type:      streamSnapshot,
			SessionID: id,
			Snapshot:  &snap,
			Timestamp: s.now(),
		})
	}
	flusher.Flush()

	log.Info("http stream opened", "last_id", lastID, "replay", len(replay), "resumed", lastID > 0 && complete)
	for {
		select {
		case <-r.Context().Done():
			log.Info("http stream closed")
			return
		case event, open := <-ch:
			if !open {
				log.Info("http stream ended")
				return
			}
			if err := writeSSEvent(w, event.Seq, event); err != nil {
				log.Debug("http stream write failed", "err", err)
				return
			}
			flusher.Flush()
			if event.Type == streamClosed {
				log.Info("http stream ended", "reason", "session closed")
				return
			}
		}
	}
}

func (s *Server) requireSession(next func(http.ResponseWriter, *http.Request, *core.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := schema.SessionID(r.PathValue("id"))
		log := logx.WithSession(r.Context(), id)
		if err := schema.ValidateSessionID(id); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if !s.sessions.touch(id) {
			log.Debug("http session unknown")
			writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
			return
		}
		sess, err := s.registry.Get(id)
		if err != nil {
			s.sessions.remove(id)
			log.Debug("http session gone", "err", err)
			writeError(w, statusFor(err), err)
			return
		}
		ctx := logx.ContextWithSessionLogger(r.Context(), log, id)
		next(w, r.WithContext(ctx), sess)
	}
}

func (s *Server) expireSession(id schema.SessionID) {
	if err := s.registry.Close(s.baseContext(), id); err != nil && !errors.Is(err, schema.ErrSessionNotFound) {
		logx.WithSession(s.baseContext(), id).Warn("http session expire failed", "err", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, schema.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, schema.ErrInvalidRequest),
		errors.Is(err, schema.ErrInvalidSpeed),
		errors.Is(err, schema.ErrInvalidDelay),
		errors.Is(err, schema.ErrInvalidMode),
		errors.Is(err, schema.ErrEmptyText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeSSEvent writes one event frame. A zero id omits the id field.
func writeSSEvent(w io.Writer, id uint64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if id > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", id); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return err
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
