package core

import "pkt.systems/socfolio/schema"

// EventSink receives transcript changes from terminal sessions.
type EventSink interface {
	OnTranscript(event schema.TranscriptEvent)
	OnSessionClosed(id schema.SessionID)
}
