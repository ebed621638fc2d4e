package eventbus

import (
	"testing"
	"time"

	"pkt.systems/socfolio/core"
	"pkt.systems/socfolio/schema"
)

var _ core.EventSink = (*Bus)(nil)

func TestSubscribeAndPublish(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("00aa")
	defer cancel()
	other, cancelOther := bus.Subscribe("00bb")
	defer cancelOther()

	event := schema.TranscriptEvent{SessionID: "00aa", Lines: schema.SystemLines("hi")}
	bus.OnTranscript(event)

	select {
	case got := <-ch:
		if got.Type != EventTranscript {
			t.Fatalf("expected transcript event, got %v", got.Type)
		}
		if got.SessionID != "00aa" || len(got.Transcript.Lines) != 1 {
			t.Fatalf("unexpected payload: %+v", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
	select {
	case got := <-other:
		t.Fatalf("unexpected event for other session: %+v", got)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("00aa")
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	if bus.Subscribers("00aa") != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestSessionClosedEndsSubscribers(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("00aa")
	bus.OnSessionClosed("00aa")
	got, ok := <-ch
	if !ok || got.Type != EventClosed {
		t.Fatalf("expected closed event, got %+v ok=%v", got, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after close event")
	}
	cancel()
}

func TestPublishDoesNotBlockWhenFull(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	_, cancel := bus.Subscribe("00aa")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for range 3 {
			bus.OnTranscript(schema.TranscriptEvent{SessionID: "00aa"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("publish blocked on full channel")
	}
}
