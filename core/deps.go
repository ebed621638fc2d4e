package core

import (
	"pkt.systems/pslog"
	"pkt.systems/socfolio/schema"
)

// SessionDeps captures optional dependencies for a terminal session.
type SessionDeps struct {
	ID         schema.SessionID
	EventSink  EventSink
	HistoryMax int
}

// RegistryDeps captures optional dependencies for the session registry.
type RegistryDeps struct {
	EventSink   EventSink
	Logger      pslog.Logger
	MaxSessions int
}
