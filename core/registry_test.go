package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/socfolio/schema"
)

func TestRegistryOpenGetClose(t *testing.T) {
	reg := NewRegistry(scenarioConfig(), RegistryDeps{})
	ctx := context.Background()

	sess, err := reg.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := reg.Get(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("get: %v", err)
	}
	sess.Submit(ctx, "status")

	if err := reg.Close(ctx, sess.ID()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := reg.Get(sess.ID()); !errors.Is(err, schema.ErrSessionNotFound) {
		t.Fatalf("expected not found after close, got %v", err)
	}
	if err := reg.Close(ctx, sess.ID()); !errors.Is(err, schema.ErrSessionNotFound) {
		t.Fatalf("expected not found on double close, got %v", err)
	}

	fresh, err := reg.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(fresh.Transcript()) != 1 {
		t.Fatalf("reopened session should start from the banner")
	}
}

func TestRegistryEnforcesLimit(t *testing.T) {
	reg := NewRegistry(scenarioConfig(), RegistryDeps{MaxSessions: 1})
	ctx := context.Background()
	if _, err := reg.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := reg.Open(ctx); !errors.Is(err, schema.ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one session, got %d", reg.Len())
	}
}

func TestRegistryRejectsMalformedID(t *testing.T) {
	reg := NewRegistry(scenarioConfig(), RegistryDeps{})
	if _, err := reg.Get("../x"); !errors.Is(err, schema.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegistryCloseNotifiesSink(t *testing.T) {
	sink := &recordingSink{}
	reg := NewRegistry(scenarioConfig(), RegistryDeps{EventSink: sink})
	ctx := context.Background()
	sess, err := reg.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := reg.Close(ctx, sess.ID()); err != nil {
		t.Fatalf("close: %v", err)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.closed) != 1 || sink.closed[0] != sess.ID() {
		t.Fatalf("expected close notification, got %v", sink.closed)
	}
}
