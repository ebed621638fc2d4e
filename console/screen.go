package console

import (
	"fmt"
	"io"
	"strings"
)

// screen paints frames onto an ANSI terminal. Rows that did not change
// since the previous frame are skipped; a change in row count repaints
// everything.
type screen struct {
	out  io.Writer
	prev []string
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

func (s *screen) EnterAltScreen() {
	s.prev = nil
	_, _ = io.WriteString(s.out, "\x1b[?1049h\x1b[H\x1b[2J")
}

func (s *screen) ExitAltScreen() {
	s.prev = nil
	_, _ = io.WriteString(s.out, "\x1b[0m\x1b[?1049l\x1b[?25h")
}

// Render paints lines. A cursorRow below 1 hides the cursor.
func (s *screen) Render(lines []string, cursorRow, cursorCol int) error {
	var b strings.Builder
	b.WriteString("\x1b[?25l")
	full := len(lines) != len(s.prev)
	if full {
		b.WriteString("\x1b[H\x1b[2J")
	}
	for i, line := range lines {
		if !full && line == s.prev[i] {
			continue
		}
		fmt.Fprintf(&b, "\x1b[%d;1H\x1b[2K%s%s", i+1, line, ansiReset)
	}
	if cursorRow >= 1 {
		fmt.Fprintf(&b, "\x1b[%d;%dH\x1b[?25h", cursorRow, max(cursorCol, 1))
	}
	if _, err := io.WriteString(s.out, b.String()); err != nil {
		s.prev = nil
		return err
	}
	s.prev = append(s.prev[:0], lines...)
	return nil
}

// invalidate forces the next Render to repaint every row.
func (s *screen) invalidate() {
	s.prev = nil
}
