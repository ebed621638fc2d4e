package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"pkt.systems/socfolio/internal/logx"
	"pkt.systems/socfolio/schema"
)

type responseRecorder struct {
	status int
	bytes  int64
	writer http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header {
	return r.writer.Header()
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.writer.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.writer.Write(p)
	r.bytes += int64(n)
	return n, err
}

func (r *responseRecorder) Flush() {
	if f, ok := r.writer.(http.Flusher); ok {
		f.Flush()
	}
}

// withRequestLogging binds a remote-annotated logger to every request and
// logs one line per response. Query strings are not logged; reveal text can
// be long and personal.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		remote := clientIP(r)
		log := logx.Ctx(r.Context()).With("remote", remote)
		r = r.WithContext(logx.ContextWithRemoteLogger(r.Context(), log, remote))
		if id := sessionFromPath(r.URL.Path); id != "" {
			log = log.With("session", id)
		}

		rec := &responseRecorder{writer: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{"method", r.Method, "path", r.URL.Path, "status", status, "bytes", rec.bytes, "duration_ms", time.Since(start).Milliseconds()}
		if n := len(r.URL.RawQuery); n > 0 {
			fields = append(fields, "query_bytes", n)
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Warn("http request", fields...)
		case r.URL.Path == "/healthz":
			log.Trace("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
		log.Debug("http request details", "ua", r.UserAgent())
	})
}

// sessionFromPath extracts the terminal session id from /api/terminal/{id}
// routes.
func sessionFromPath(path string) schema.SessionID {
	rest, ok := strings.CutPrefix(path, "/api/terminal/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return schema.SessionID(id)
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the
// peer host without its port.
func clientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
