package core

// Scrollback tracks how far a viewport is scrolled up from the newest row.
// Offset 0 means the view follows the bottom.
type Scrollback struct {
	offset int
	total  int
}

// View is the visible slice of a scrolled row list.
type View struct {
	Start        int
	End          int
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Sync records the current row count. When the view is scrolled up and rows
// were added, the offset grows to keep the view anchored. A shrinking row
// count (a reset) returns the view to the bottom.
func (b *Scrollback) Sync(total int) {
	switch {
	case total < b.total:
		b.offset = 0
	case total > b.total && b.offset > 0:
		b.offset += total - b.total
	}
	b.total = total
}

// Scroll adjusts the offset by delta rows. Positive delta scrolls up
// (older rows). Limit is the viewport height.
func (b *Scrollback) Scroll(delta, limit int) {
	b.offset = clampScroll(b.offset+delta, b.total, limit)
}

// ResetScroll returns the view to the bottom.
func (b *Scrollback) ResetScroll() {
	b.offset = 0
}

// Offset reports the current scroll offset.
func (b *Scrollback) Offset() int { return b.offset }

// Window returns the visible range for a viewport of limit rows.
func (b *Scrollback) Window(limit int) View {
	total := b.total
	if limit <= 0 || limit > total {
		limit = total
	}
	if max := maxScroll(total, limit); b.offset > max {
		b.offset = max
	}
	end := max(total-b.offset, 0)
	start := max(end-limit, 0)
	return View{
		Start:        start,
		End:          end,
		TotalLines:   total,
		ScrollOffset: b.offset,
		AtBottom:     b.offset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	if total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
