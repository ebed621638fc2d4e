package socfolio

import (
	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnTranscript(event schema.TranscriptEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTranscript(event)
	}
}

func (f eventFanout) OnSessionClosed(id schema.SessionID) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSessionClosed(id)
	}
}
