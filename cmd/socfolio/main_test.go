package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pkt.systems/socfolio/internal/appconfig"
	"pkt.systems/socfolio/internal/content"
	"pkt.systems/socfolio/schema"
)

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"serve", "play", "reveal", "content", "config", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRevealTypewriterPrintsText(t *testing.T) {
	var out bytes.Buffer
	err := runReveal(context.Background(), &out, revealOptions{
		Mode:  schema.RevealTypewriter,
		Text:  "añb",
		Speed: time.Millisecond,
	}, time.Now)
	if err != nil {
		t.Fatalf("runReveal: %v", err)
	}
	if out.String() != "añb\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRevealScrambleRedrawsInPlace(t *testing.T) {
	var out bytes.Buffer
	err := runReveal(context.Background(), &out, revealOptions{
		Mode:  schema.RevealScramble,
		Text:  "ab",
		Speed: time.Millisecond,
	}, time.Now)
	if err != nil {
		t.Fatalf("runReveal: %v", err)
	}
	got := out.String()
	if !strings.HasSuffix(got, "\rab\n") {
		t.Fatalf("expected resolved final frame, got %q", got)
	}
	if frames := strings.Count(got, "\r"); frames != 7 {
		t.Fatalf("expected 7 frames, got %d", frames)
	}
}

func TestRevealRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	if err := runReveal(ctx, &out, revealOptions{Text: "x", Speed: 0}, time.Now); !errors.Is(err, schema.ErrInvalidSpeed) {
		t.Fatalf("expected invalid speed, got %v", err)
	}
	if err := runReveal(ctx, &out, revealOptions{Text: "", Speed: time.Millisecond}, time.Now); !errors.Is(err, schema.ErrEmptyText) {
		t.Fatalf("expected empty text, got %v", err)
	}
	if err := runReveal(ctx, &out, revealOptions{Text: "x", Speed: time.Millisecond, Delay: -time.Second}, time.Now); !errors.Is(err, schema.ErrInvalidDelay) {
		t.Fatalf("expected invalid delay, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRevealStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := runReveal(ctx, &out, revealOptions{Text: "abc", Speed: time.Millisecond}, time.Now)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if strings.Contains(out.String(), "\n") {
		t.Fatalf("canceled reveal should not finish the line: %q", out.String())
	}
}

func TestRevealCommandReadsStdin(t *testing.T) {
	out, err := execute(t, "stdin text\n", "reveal", "--speed", "1ms")
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if out != "stdin text\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRevealCommandRejectsUnknownMode(t *testing.T) {
	if _, err := execute(t, "", "reveal", "--mode", "glitch", "x"); !errors.Is(err, schema.ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
}

func TestConfigInitWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	out, err := execute(t, "", "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	cfg, err := appconfig.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.ConfigVersion != appconfig.CurrentConfigVersion {
		t.Fatalf("unexpected config version %d", cfg.ConfigVersion)
	}
	if _, err := execute(t, "", "config", "init", "--config", path); err == nil {
		t.Fatalf("expected existing config to be kept")
	}
	if _, err := execute(t, "", "config", "init", "--config", path, "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestContentCheckBuiltIn(t *testing.T) {
	out, err := execute(t, "", "content", "check")
	if err != nil {
		t.Fatalf("content check: %v", err)
	}
	if !strings.HasPrefix(out, "built-in: ok") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestContentCheckRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.cue")
	if err := os.WriteFile(path, []byte("profile: name: 42\n"), 0o600); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if _, err := execute(t, "", "content", "check", path); err == nil {
		t.Fatalf("expected invalid content to fail")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "socfolio") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestBuildServerFollowsHTTPToggle(t *testing.T) {
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cnt, err := content.Default()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	cfg.HTTP.Enabled = true
	cfg.HTTP.BasePath = "/soc"
	_, serverCfg, err := buildServer(cfg, cnt, nil)
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	if serverCfg.HTTP.BasePath != "/soc" {
		t.Fatalf("expected base path to carry over, got %q", serverCfg.HTTP.BasePath)
	}
	if serverCfg.MaxSessions != cfg.SSH.MaxSessions+cfg.HTTP.MaxSessions {
		t.Fatalf("unexpected session cap %d", serverCfg.MaxSessions)
	}
}
