package core

import "strings"

const defaultHistoryMax = 200

// inputHistory is a bounded ring of accepted input lines. Blank lines and
// immediate repeats are not recorded.
type inputHistory struct {
	ring  []string
	start int
	size  int
}

func newInputHistory(limit int) *inputHistory {
	if limit <= 0 {
		limit = defaultHistoryMax
	}
	return &inputHistory{ring: make([]string, limit)}
}

func (h *inputHistory) last() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	return h.ring[(h.start+h.size-1)%len(h.ring)], true
}

// record stores line and reports whether it was kept.
func (h *inputHistory) record(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if prev, ok := h.last(); ok && prev == line {
		return false
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = line
		h.size++
		return true
	}
	h.ring[h.start] = line
	h.start = (h.start + 1) % len(h.ring)
	return true
}

// lines returns the recorded lines, oldest first.
func (h *inputHistory) lines() []string {
	out := make([]string, 0, h.size)
	for i := range h.size {
		out = append(out, h.ring[(h.start+i)%len(h.ring)])
	}
	return out
}
