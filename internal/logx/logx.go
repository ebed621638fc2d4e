package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/socfolio/schema"
)

type contextKey int

const (
	sessionKey contextKey = iota
	remoteKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the terminal session id if present.
func WithSession(ctx context.Context, sessionID schema.SessionID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// WithRemote annotates the logger with the remote address if present.
func WithRemote(ctx context.Context, remote string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if remote != "" {
		if current, ok := ctx.Value(remoteKey).(string); ok && current == remote {
			return log
		}
		log = log.With("remote", remote)
	}
	return log
}

// WithView annotates the logger with the active console view.
func WithView(log pslog.Logger, view string) pslog.Logger {
	if view != "" {
		log = log.With("view", view)
	}
	return log
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, sessionID schema.SessionID) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextWithRemote stores the remote marker on the context for log de-duplication.
func ContextWithRemote(ctx context.Context, remote string) context.Context {
	if ctx == nil || remote == "" {
		return ctx
	}
	return context.WithValue(ctx, remoteKey, remote)
}

// ContextWithSessionLogger attaches the logger and session marker to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, sessionID schema.SessionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ctx, sessionID)
}

// ContextWithRemoteLogger attaches the logger and remote marker to the context.
func ContextWithRemoteLogger(ctx context.Context, log pslog.Logger, remote string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithRemote(ctx, remote)
}
