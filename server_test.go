package socfolio

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"pkt.systems/socfolio/httpapi"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/internal/eventbus"
)

func testContent(t *testing.T) content.Content {
	t.Helper()
	cnt, err := content.Default()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	return cnt
}

func TestNewRequiresAService(t *testing.T) {
	if _, err := New(ServerConfig{}, ServerDeps{Content: testContent(t)}); err == nil {
		t.Fatalf("expected error without services")
	}
	if _, err := New(ServerConfig{}, ServerDeps{}, WithHTTP()); err == nil {
		t.Fatalf("expected error without content")
	}
}

func TestServerFansOutSessionEvents(t *testing.T) {
	srv, err := New(ServerConfig{}, ServerDeps{Content: testContent(t)}, WithHTTP(), WithSSH())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cs := srv.(*compositeServer)
	if cs.sshSrv.Events == nil || cs.sshSrv.Sessions != cs.registry {
		t.Fatalf("expected ssh server to share the registry and bus")
	}
	sess, err := cs.registry.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ch, cancel := cs.sshSrv.Events.Subscribe(sess.ID())
	defer cancel()
	sess.Submit(context.Background(), "whoami")
	select {
	case ev := <-ch:
		if ev.Type != eventbus.EventTranscript || len(ev.Transcript.Lines) != 2 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for bus event")
	}
}

func TestServerStopClosesSessions(t *testing.T) {
	srv, err := New(ServerConfig{}, ServerDeps{Content: testContent(t)}, WithSSH())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cs := srv.(*compositeServer)
	ctx, cancel := context.WithCancel(context.Background())
	cs.ctx, cs.cancel, cs.started = ctx, cancel, true
	for range 3 {
		if _, err := cs.registry.Open(ctx); err != nil {
			t.Fatalf("open: %v", err)
		}
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if cs.registry.Len() != 0 {
		t.Fatalf("expected sessions closed, got %d", cs.registry.Len())
	}
	select {
	case <-ctx.Done():
	default:
		t.Fatalf("expected server context to be canceled")
	}
}

func TestServerServesHTTP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv, err := New(ServerConfig{HTTP: httpapi.Config{Addr: ln.Addr().String()}}, ServerDeps{
		Content:      testContent(t),
		HTTPListener: ln,
	}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Fatalf("expected second start to fail")
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("unexpected healthz: %d %q", resp.StatusCode, body)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Wait did not return after Stop")
	}
}
