package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestScreenRepaintsOnlyChangedRows(t *testing.T) {
	var out bytes.Buffer
	s := newScreen(&out)
	if err := s.Render([]string{"alpha", "bravo", "charlie"}, 0, 0); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Fatalf("expected first frame to clear the screen")
	}

	out.Reset()
	if err := s.Render([]string{"alpha", "BRAVO", "charlie"}, 2, 3); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "\x1b[2J") || strings.Contains(got, "alpha") || strings.Contains(got, "charlie") {
		t.Fatalf("unchanged rows were repainted: %q", got)
	}
	if !strings.Contains(got, "\x1b[2;1H\x1b[2KBRAVO") {
		t.Fatalf("expected row 2 to be repainted: %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[2;3H\x1b[?25h") {
		t.Fatalf("expected cursor at 2;3: %q", got)
	}
}

func TestScreenInvalidateForcesFullFrame(t *testing.T) {
	var out bytes.Buffer
	s := newScreen(&out)
	lines := []string{"one", "two"}
	_ = s.Render(lines, 0, 0)
	out.Reset()
	_ = s.Render(lines, 0, 0)
	if strings.Contains(out.String(), "one") {
		t.Fatalf("identical frame should not repaint rows: %q", out.String())
	}
	s.invalidate()
	out.Reset()
	_ = s.Render(lines, 0, 0)
	if !strings.Contains(out.String(), "\x1b[2J") || !strings.Contains(out.String(), "two") {
		t.Fatalf("expected full repaint after invalidate: %q", out.String())
	}
}
