// Package terminal implements the editor's embedded terminal view: a grid
// of styled cells driven by a byte-level ANSI/VT100 parser, faithful to a
// practical subset of ECMA-48.
package terminal

// Change flags, mirroring the dirty-tracking the reference terminal
// multiplexer uses to dedup WebSocket updates.
const (
	ChangedScreen uint32 = 1 << iota
	ChangedCursor
	ChangedTitle
	ChangedSize
)

// Screen is a grid of styled cells plus a cursor and the current SGR
// state, populated by a Parser. 0 ≤ CursorRow < Rows and
// 0 ≤ CursorCol < Cols, except transiently equal to Cols until the next
// character wraps.
type Screen struct {
	cells []Cell
	rows  int
	cols  int

	cursorRow int
	cursorCol int

	currentFg    Color
	currentBg    Color
	currentAttrs CellAttrs

	savedCursorRow int
	savedCursorCol int

	// Dirty tracking, adapted from the reference multiplexer's buffer
	// dedup scheme: which rows changed since the last ResetChanges, so a
	// subscriber can be sent only the rows that moved.
	dirty       []bool
	anyDirty    bool
	changeFlags uint32
	sequenceID  uint64
}

// NewScreen returns a rows x cols screen filled with DefaultCell.
func NewScreen(cols, rows int) *Screen {
	s := &Screen{
		cols:      cols,
		rows:      rows,
		cells:     make([]Cell, rows*cols),
		dirty:     make([]bool, rows),
		currentFg: DefaultFg,
		currentBg: DefaultBg,
	}
	for i := range s.cells {
		s.cells[i] = DefaultCell
	}
	return s
}

func (s *Screen) Rows() int { return s.rows }
func (s *Screen) Cols() int { return s.cols }
func (s *Screen) CursorRow() int { return s.cursorRow }
func (s *Screen) CursorCol() int { return s.cursorCol }

func (s *Screen) idx(row, col int) int { return row*s.cols + col }

// Cell returns the cell at (row, col).
func (s *Screen) Cell(row, col int) Cell {
	return s.cells[s.idx(row, col)]
}

func (s *Screen) markLineChanged(row int) {
	if row >= 0 && row < s.rows {
		s.dirty[row] = true
		s.anyDirty = true
		s.changeFlags |= ChangedScreen
	}
}

func (s *Screen) markCursorChanged() {
	s.changeFlags |= ChangedCursor
	s.anyDirty = true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteChar writes the current SGR attributes to the cell at the cursor
// and advances the cursor, wrapping to the next row on column overflow
// and scrolling on row overflow.
func (s *Screen) WriteChar(cp rune) {
	if s.cursorRow < s.rows && s.cursorCol < s.cols {
		s.cells[s.idx(s.cursorRow, s.cursorCol)] = Cell{
			Codepoint: cp,
			Fg:        s.currentFg,
			Bg:        s.currentBg,
			Attrs:     s.currentAttrs,
		}
		s.markLineChanged(s.cursorRow)
	}

	s.cursorCol++
	if s.cursorCol >= s.cols {
		s.cursorCol = 0
		s.cursorRow++
		if s.cursorRow >= s.rows {
			s.ScrollUp()
		}
	}
}

// MoveCursor sets the cursor position, clamping to the grid.
func (s *Screen) MoveCursor(row, col int) {
	newRow := clamp(row, 0, s.rows-1)
	newCol := clamp(col, 0, s.cols-1)
	if newRow != s.cursorRow || newCol != s.cursorCol {
		s.cursorRow = newRow
		s.cursorCol = newCol
		s.markCursorChanged()
	}
}

// MoveCursorBy adjusts the cursor by (dRow, dCol), clamping to the grid.
func (s *Screen) MoveCursorBy(dRow, dCol int) {
	s.MoveCursor(s.cursorRow+dRow, s.cursorCol+dCol)
}

// ScrollUp shifts rows [1, rows) to [0, rows-1) and clears the last row.
// If the cursor was below row 0, its row is decremented — this is the
// single mechanism both explicit scroll requests and line/column overflow
// in WriteChar/line-feed handling rely on.
func (s *Screen) ScrollUp() {
	copy(s.cells, s.cells[s.cols:])
	blank := s.cells[s.idx(s.rows-1, 0):]
	for i := range blank {
		blank[i] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
	}
	if s.cursorRow > 0 {
		s.cursorRow--
	}
	for i := 0; i < s.rows; i++ {
		s.markLineChanged(i)
	}
}

// scrollDown shifts rows [0, rows-1) to [1, rows) and clears row 0,
// the inverse of ScrollUp, used by reverse-index (ESC M) at the top row.
func (s *Screen) scrollDown() {
	copy(s.cells[s.cols:], s.cells[:len(s.cells)-s.cols])
	top := s.cells[:s.cols]
	for i := range top {
		top[i] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
	}
	for i := 0; i < s.rows; i++ {
		s.markLineChanged(i)
	}
}

// EraseToEndOfLine resets cells from the cursor to the end of its row.
func (s *Screen) EraseToEndOfLine() {
	for x := s.cursorCol; x < s.cols; x++ {
		s.cells[s.idx(s.cursorRow, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
	}
	s.markLineChanged(s.cursorRow)
}

// EraseToStartOfLine resets cells from the start of the row to the cursor,
// inclusive.
func (s *Screen) EraseToStartOfLine() {
	for x := 0; x <= s.cursorCol && x < s.cols; x++ {
		s.cells[s.idx(s.cursorRow, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
	}
	s.markLineChanged(s.cursorRow)
}

// ClearLine resets the entire current row.
func (s *Screen) ClearLine() {
	for x := 0; x < s.cols; x++ {
		s.cells[s.idx(s.cursorRow, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
	}
	s.markLineChanged(s.cursorRow)
}

// EraseToEndOfScreen resets the cursor's row from the cursor onward, and
// every row below it.
func (s *Screen) EraseToEndOfScreen() {
	s.EraseToEndOfLine()
	for y := s.cursorRow + 1; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.cells[s.idx(y, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
		}
		s.markLineChanged(y)
	}
}

// EraseToStartOfScreen resets every row above the cursor's row, and the
// cursor's row up to and including the cursor.
func (s *Screen) EraseToStartOfScreen() {
	for y := 0; y < s.cursorRow; y++ {
		for x := 0; x < s.cols; x++ {
			s.cells[s.idx(y, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
		}
		s.markLineChanged(y)
	}
	s.EraseToStartOfLine()
}

// ClearScreen resets every cell and marks every row changed. It does not
// move the cursor; callers implementing CSI 2J + cursor home do both.
func (s *Screen) ClearScreen() {
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.cells[s.idx(y, x)] = Cell{Codepoint: ' ', Fg: s.currentFg, Bg: s.currentBg}
		}
		s.markLineChanged(y)
	}
}

// SaveCursor stores the current cursor position.
func (s *Screen) SaveCursor() {
	s.savedCursorRow = s.cursorRow
	s.savedCursorCol = s.cursorCol
}

// RestoreCursor recalls the previously saved cursor position.
func (s *Screen) RestoreCursor() {
	s.MoveCursor(s.savedCursorRow, s.savedCursorCol)
}

// SetSGR sets the current graphic-rendition state applied to subsequent
// WriteChar calls.
func (s *Screen) SetSGR(fg, bg Color, attrs CellAttrs) {
	s.currentFg, s.currentBg, s.currentAttrs = fg, bg, attrs
}

// SGR returns the current graphic-rendition state.
func (s *Screen) SGR() (fg, bg Color, attrs CellAttrs) {
	return s.currentFg, s.currentBg, s.currentAttrs
}

// Resize adjusts the grid, preserving the overlapping top-left region and
// clamping the cursor into the new bounds.
func (s *Screen) Resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}

	newCells := make([]Cell, rows*cols)
	for i := range newCells {
		newCells[i] = DefaultCell
	}
	newDirty := make([]bool, rows)
	for i := range newDirty {
		newDirty[i] = true
	}

	minRows, minCols := rows, cols
	if s.rows < minRows {
		minRows = s.rows
	}
	if s.cols < minCols {
		minCols = s.cols
	}
	for y := 0; y < minRows; y++ {
		for x := 0; x < minCols; x++ {
			newCells[y*cols+x] = s.cells[s.idx(y, x)]
		}
	}

	s.cells = newCells
	s.dirty = newDirty
	s.cols = cols
	s.rows = rows

	if s.cursorCol >= cols {
		s.cursorCol = cols - 1
		s.markCursorChanged()
	}
	if s.cursorRow >= rows {
		s.cursorRow = rows - 1
		s.markCursorChanged()
	}
	s.changeFlags |= ChangedSize
	s.anyDirty = true
}

// DirtyRows reports which rows changed since the last ResetChanges call.
func (s *Screen) DirtyRows() []bool { return s.dirty }

// AnyDirty reports whether anything changed since the last ResetChanges.
func (s *Screen) AnyDirty() bool { return s.anyDirty || s.changeFlags != 0 }

// ChangeFlags returns the bitmask of change kinds since the last
// ResetChanges.
func (s *Screen) ChangeFlags() uint32 { return s.changeFlags }

// NextSequenceID increments and returns the screen's monotonic sequence
// counter, used by subscribers to deduplicate snapshots.
func (s *Screen) NextSequenceID() uint64 {
	s.sequenceID++
	return s.sequenceID
}

// Grid returns the screen's rows as row-major []Cell slices, for callers
// that need to inspect or serialize the whole screen at once.
func (s *Screen) Grid() [][]Cell {
	grid := make([][]Cell, s.rows)
	for row := 0; row < s.rows; row++ {
		grid[row] = s.cells[s.idx(row, 0):s.idx(row, s.cols)]
	}
	return grid
}

// SerializeRows encodes the screen into the reference multiplexer's binary
// wire format.
func (s *Screen) SerializeRows() []byte {
	return SerializeRows(s.cols, s.rows, 0, s.cursorCol, s.cursorRow, s.Grid())
}

// ResetChanges clears dirty flags after a snapshot has been published.
func (s *Screen) ResetChanges() {
	for i := range s.dirty {
		s.dirty[i] = false
	}
	s.anyDirty = false
	s.changeFlags = 0
}
