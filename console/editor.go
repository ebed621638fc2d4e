package console

// lineEditor is a single-line input buffer with an insertion cursor.
type lineEditor struct {
	buf    []rune
	cursor int
}

func (e *lineEditor) String() string {
	return string(e.buf)
}

func (e *lineEditor) Len() int {
	return len(e.buf)
}

func (e *lineEditor) Cursor() int {
	return e.cursor
}

func (e *lineEditor) Clear() {
	e.buf = nil
	e.cursor = 0
}

func (e *lineEditor) SetString(value string) {
	e.buf = []rune(value)
	e.cursor = len(e.buf)
}

func (e *lineEditor) InsertRune(r rune) {
	e.cursor = max(0, min(e.cursor, len(e.buf)))
	e.buf = append(e.buf[:e.cursor], append([]rune{r}, e.buf[e.cursor:]...)...)
	e.cursor++
}

func (e *lineEditor) Backspace() {
	if e.cursor <= 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

func (e *lineEditor) Delete() {
	if e.cursor < 0 || e.cursor >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
}

func (e *lineEditor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *lineEditor) MoveRight() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func (e *lineEditor) MoveStart() {
	e.cursor = 0
}

func (e *lineEditor) MoveEnd() {
	e.cursor = len(e.buf)
}

func (e *lineEditor) MoveWordLeft() {
	i := e.cursor
	for i > 0 && e.buf[i-1] == ' ' {
		i--
	}
	for i > 0 && e.buf[i-1] != ' ' {
		i--
	}
	e.cursor = i
}

func (e *lineEditor) MoveWordRight() {
	i := e.cursor
	for i < len(e.buf) && e.buf[i] == ' ' {
		i++
	}
	for i < len(e.buf) && e.buf[i] != ' ' {
		i++
	}
	e.cursor = i
}

func (e *lineEditor) DeleteWordBackward() {
	start := e.cursor
	e.MoveWordLeft()
	if e.cursor == start {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[start:]...)
}

func (e *lineEditor) KillLineStart() {
	e.buf = append([]rune(nil), e.buf[e.cursor:]...)
	e.cursor = 0
}

func (e *lineEditor) KillLineEnd() {
	e.buf = e.buf[:e.cursor]
}

// recall walks submitted history from newest to oldest. The line being
// typed when recall starts is kept as the draft and restored past the
// newest entry.
type recall struct {
	index int
	draft string
}

func newRecall() recall {
	return recall{index: -1}
}

// Older returns the previous entry, or false when none is older.
func (h *recall) Older(entries []string, current string) (string, bool) {
	if len(entries) == 0 || h.index == 0 {
		return "", false
	}
	if h.index < 0 {
		h.draft = current
		h.index = len(entries)
	}
	h.index--
	return entries[h.index], true
}

// Newer returns the next entry or the draft once past the newest.
func (h *recall) Newer(entries []string) (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index++
	if h.index >= len(entries) {
		h.index = -1
		return h.draft, true
	}
	return entries[h.index], true
}

func (h *recall) Reset() {
	h.index = -1
	h.draft = ""
}
