package terminal

import "testing"

func TestResizePreservesOverlap(t *testing.T) {
	s := NewScreen(10, 4)
	s.WriteChar('X')
	s.Resize(5, 2)
	if s.Cell(0, 0).Codepoint != 'X' {
		t.Fatalf("resize should preserve overlapping region")
	}
	if s.Rows() != 2 || s.Cols() != 5 {
		t.Fatalf("resize dims = %dx%d, want 5x2", s.Cols(), s.Rows())
	}
}

func TestResizeClampsCursor(t *testing.T) {
	s := NewScreen(10, 4)
	s.MoveCursor(3, 9)
	s.Resize(4, 2)
	if s.CursorRow() != 1 || s.CursorCol() != 3 {
		t.Fatalf("cursor = (%d,%d), want clamped to (1,3)", s.CursorRow(), s.CursorCol())
	}
}

func TestDirtyTrackingResets(t *testing.T) {
	s := NewScreen(5, 3)
	s.WriteChar('a')
	if !s.AnyDirty() {
		t.Fatalf("expected dirty after write")
	}
	s.ResetChanges()
	if s.AnyDirty() {
		t.Fatalf("expected clean after ResetChanges")
	}
}

func TestSerializeRowsRoundTripsDimensions(t *testing.T) {
	s := NewScreen(4, 2)
	s.WriteChar('a')
	grid := [][]Cell{
		{s.Cell(0, 0), s.Cell(0, 1), s.Cell(0, 2), s.Cell(0, 3)},
		{s.Cell(1, 0), s.Cell(1, 1), s.Cell(1, 2), s.Cell(1, 3)},
	}
	buf := SerializeRows(4, 2, 0, s.CursorCol(), s.CursorRow(), grid)
	if len(buf) < 28 {
		t.Fatalf("serialized buffer too short: %d bytes", len(buf))
	}
	if buf[0] != 0x54 || buf[1] != 0x56 {
		t.Fatalf("magic mismatch: % x", buf[:2])
	}
}
