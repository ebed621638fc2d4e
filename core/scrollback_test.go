package core

import "testing"

func TestScrollbackAnchorsOnGrowth(t *testing.T) {
	var b Scrollback
	b.Sync(5)
	b.Scroll(2, 3)
	if b.Offset() != 2 {
		t.Fatalf("expected scroll offset 2, got %d", b.Offset())
	}
	b.Sync(7)
	if b.Offset() != 4 {
		t.Fatalf("expected scroll offset 4 after growth, got %d", b.Offset())
	}
	view := b.Window(3)
	if view.AtBottom {
		t.Fatalf("expected not at bottom after scroll")
	}
	if view.End-view.Start != 3 {
		t.Fatalf("expected 3 rows, got %d", view.End-view.Start)
	}
}

func TestScrollbackResetOnShrink(t *testing.T) {
	var b Scrollback
	b.Sync(40)
	b.Scroll(10, 5)
	b.Sync(6)
	if b.Offset() != 0 {
		t.Fatalf("expected bottom after shrink, got %d", b.Offset())
	}
}

func TestScrollbackClampsToBounds(t *testing.T) {
	var b Scrollback
	b.Sync(5)
	b.Scroll(10, 3)
	if b.Offset() != 2 {
		t.Fatalf("expected scroll offset 2, got %d", b.Offset())
	}
	b.Scroll(-10, 3)
	if b.Offset() != 0 {
		t.Fatalf("expected scroll offset 0, got %d", b.Offset())
	}
}

func TestScrollbackWindowClampsOffset(t *testing.T) {
	var b Scrollback
	b.Sync(5)
	b.offset = 10
	view := b.Window(3)
	if view.ScrollOffset != 2 || view.Start != 0 || view.End != 3 {
		t.Fatalf("unexpected view %+v", view)
	}
	b.ResetScroll()
	view = b.Window(3)
	if !view.AtBottom || view.Start != 2 || view.End != 5 {
		t.Fatalf("unexpected bottom view %+v", view)
	}
}
