package terminal

import "testing"

func feed(s string) *Screen {
	scr := NewScreen(80, 24)
	p := NewParser(scr)
	p.Process([]byte(s))
	return scr
}

func TestWriteCharAdvancesCursor(t *testing.T) {
	scr := feed("Hello")
	for i, want := range "Hello" {
		if got := scr.Cell(0, i).Codepoint; got != want {
			t.Fatalf("cell %d = %q, want %q", i, got, want)
		}
	}
	if scr.CursorCol() != 5 {
		t.Fatalf("cursor col = %d, want 5", scr.CursorCol())
	}
}

func TestSGRColor(t *testing.T) {
	scr := feed("Hello\x1b[31mRed\x1b[0m")
	if got := scr.Cell(0, 0).Codepoint; got != 'H' {
		t.Fatalf("cell(0,0) = %q", got)
	}
	red := scr.Cell(0, 5)
	if red.Codepoint != 'R' {
		t.Fatalf("cell(0,5).Codepoint = %q, want 'R'", red.Codepoint)
	}
	if red.Fg != (Color{205, 49, 49}) {
		t.Fatalf("cell(0,5).Fg = %+v, want red", red.Fg)
	}
	if red.Bg != DefaultBg {
		t.Fatalf("cell(0,5).Bg = %+v, want default black", red.Bg)
	}
}

func TestCursorClampingOnAbsolutePosition(t *testing.T) {
	scr := feed("\x1b[999;999H")
	if scr.CursorRow() != 23 || scr.CursorCol() != 79 {
		t.Fatalf("cursor = (%d,%d), want (23,79)", scr.CursorRow(), scr.CursorCol())
	}
}

func TestEraseWholeScreen(t *testing.T) {
	scr := feed("Hello\x1b[2J")
	if got := scr.Cell(0, 0).Codepoint; got != ' ' {
		t.Fatalf("cell(0,0) = %q, want space", got)
	}
	if scr.CursorRow() != 0 || scr.CursorCol() != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", scr.CursorRow(), scr.CursorCol())
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	scr := feed("Hello\x1b7World\x1b8!")
	// After "Hello" cursor is at (0,5); ESC 7 saves that; "World" advances to
	// (0,10); ESC 8 restores to (0,5); "!" overwrites the 'W'.
	if scr.Cell(0, 5).Codepoint != '!' {
		t.Fatalf("cell(0,5) = %q, want '!'", scr.Cell(0, 5).Codepoint)
	}
}

func TestCarriageReturnLineFeed(t *testing.T) {
	scr := feed("ab\r\ncd")
	if scr.Cell(0, 0).Codepoint != 'a' || scr.Cell(1, 0).Codepoint != 'c' {
		t.Fatalf("unexpected grid: (0,0)=%q (1,0)=%q", scr.Cell(0, 0).Codepoint, scr.Cell(1, 0).Codepoint)
	}
}

func TestUnknownSequenceDiscardedWithoutAborting(t *testing.T) {
	scr := feed("A\x1b[9999zB")
	if scr.Cell(0, 0).Codepoint != 'A' || scr.Cell(0, 1).Codepoint != 'B' {
		t.Fatalf("unknown CSI should be dropped, continuing with following text")
	}
}

func TestMultiByteUTF8AcrossWrites(t *testing.T) {
	scr := NewScreen(10, 3)
	p := NewParser(scr)
	full := []byte("日本語")
	// feed one byte at a time to exercise the partial-sequence buffering
	for _, b := range full {
		p.Process([]byte{b})
	}
	if got := scr.Cell(0, 0).Codepoint; got != '日' {
		t.Fatalf("cell(0,0) = %q, want 日", got)
	}
	if got := scr.Cell(0, 2).Codepoint; got != '語' {
		t.Fatalf("cell(0,2) = %q, want 語", got)
	}
}

func TestScrollOnOverflow(t *testing.T) {
	scr := NewScreen(5, 2)
	p := NewParser(scr)
	p.Process([]byte("row1\r\nrow2\r\nrow3"))
	if scr.Cell(0, 0).Codepoint != 'r' {
		t.Fatalf("expected scroll to have shifted row2 into row0")
	}
}
