// Package rope implements the editor's persistent piece-sequence text
// buffer: fast insert/delete at arbitrary byte offsets, zero-copy reads
// where possible, and cheap snapshots that stay valid across later edits.
package rope

import "unicode/utf8"

// lineCache holds the rope's cached line count as a Computed(n)/Dirty
// sum type: Dirty reads rescan and transition to Computed.
type lineCache struct {
	valid bool
	n     int
}

// Rope is an ordered sequence of piece references over a single owning
// Arena, plus the total byte length and an optional cached line count.
type Rope struct {
	pieces []Piece
	length int
	arena  *Arena
	lines  lineCache
}

// New returns an empty rope with its own arena.
func New() *Rope {
	return &Rope{arena: NewArena()}
}

// FromString returns a rope seeded with s. s must be valid UTF-8.
func FromString(s string) (*Rope, error) {
	r := New()
	if err := r.Insert(0, []byte(s)); err != nil {
		return nil, err
	}
	return r, nil
}

// Len returns the rope's total length in bytes.
func (r *Rope) Len() int { return r.length }

// locate walks the piece sequence summing lengths and returns the index of
// the piece containing byte offset pos and the local offset within it. An
// offset on a boundary between two pieces resolves to the earlier piece
// with local equal to its length; for an empty rope, idx is 0 and local 0.
func (r *Rope) locate(pos int) (idx, local int) {
	sum := 0
	for i, p := range r.pieces {
		if pos <= sum+p.len() {
			return i, pos - sum
		}
		sum += p.len()
	}
	return len(r.pieces), 0
}

// Insert splices bytes at byte offset pos, splitting an existing piece if
// pos falls in its interior. Fails with ErrOutOfBounds if pos > Len(), and
// ErrInvalidUTF8 if data is not well-formed UTF-8 (rejecting overlong
// encodings, surrogate halves, code points beyond U+10FFFF, and truncated
// sequences, per utf8.Valid). Validation precedes mutation: a failed
// Insert leaves the rope unchanged.
func (r *Rope) Insert(pos int, data []byte) error {
	if pos < 0 || pos > r.length {
		return ErrOutOfBounds
	}
	if len(data) == 0 {
		return nil
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}

	stored := r.arena.Alloc(data)
	newPiece := Piece{data: stored}

	idx, local := r.locate(pos)
	next := make([]Piece, 0, len(r.pieces)+2)
	next = append(next, r.pieces[:idx]...)

	switch {
	case idx == len(r.pieces):
		next = append(next, newPiece)
	case local == 0:
		next = append(next, newPiece, r.pieces[idx])
	case local == r.pieces[idx].len():
		next = append(next, r.pieces[idx], newPiece)
	default:
		p := r.pieces[idx]
		prefix := Piece{data: p.data[:local]}
		suffix := Piece{data: p.data[local:]}
		next = append(next, prefix, newPiece, suffix)
	}

	if idx < len(r.pieces) {
		next = append(next, r.pieces[idx+1:]...)
	}

	r.pieces = next
	r.length += len(data)
	r.lines.valid = false
	return nil
}

// Delete removes the length bytes starting at start. Fails with
// ErrOutOfBounds if the range exits the buffer. The underlying arena
// storage is never freed; pieces are append-only.
func (r *Rope) Delete(start, length int) error {
	if start < 0 || length < 0 || start+length > r.length {
		return ErrOutOfBounds
	}
	if length == 0 {
		return nil
	}
	end := start + length

	next := make([]Piece, 0, len(r.pieces))
	sum := 0
	for _, p := range r.pieces {
		pStart, pEnd := sum, sum+p.len()
		sum = pEnd

		if pEnd <= start || pStart >= end {
			next = append(next, p)
			continue
		}
		if pStart < start {
			next = append(next, Piece{data: p.data[:start-pStart]})
		}
		if pEnd > end {
			next = append(next, Piece{data: p.data[end-pStart:]})
		}
	}

	r.pieces = next
	r.length -= length
	r.lines.valid = false
	return nil
}

// Slice returns the bytes in [start, end). If the range lies entirely
// within one piece, the returned slice is a zero-copy view into that
// piece's arena storage. Otherwise the bytes are concatenated into a
// fresh arena allocation whose lifetime is tied to the rope.
func (r *Rope) Slice(start, end int) ([]byte, error) {
	if start > end {
		return nil, ErrInvalidRange
	}
	if start < 0 || end > r.length {
		return nil, ErrOutOfBounds
	}
	if start == end {
		return nil, nil
	}

	sum := 0
	for _, p := range r.pieces {
		pStart, pEnd := sum, sum+p.len()
		sum = pEnd
		if start >= pStart && end <= pEnd {
			return p.data[start-pStart : end-pStart], nil
		}
	}

	out := make([]byte, 0, end-start)
	sum = 0
	for _, p := range r.pieces {
		pStart, pEnd := sum, sum+p.len()
		sum = pEnd
		if pEnd <= start || pStart >= end {
			continue
		}
		lo, hi := 0, p.len()
		if pStart < start {
			lo = start - pStart
		}
		if pEnd > end {
			hi = end - pStart
		}
		out = append(out, p.data[lo:hi]...)
	}
	return r.arena.Alloc(out), nil
}

// String returns the rope's full content as a string (a copy).
func (r *Rope) String() string {
	b, _ := r.Slice(0, r.length)
	return string(b)
}

// Iterator produces successive zero-copy byte slices covering [start, end)
// in order. It is finite and not restartable.
type Iterator struct {
	pieces []Piece
	offset int // global offset of r.pieces[idx]'s start
	idx    int
	start  int
	end    int
}

// Iterator returns a lazy, forward-only sequence of byte slices over
// [start, end).
func (r *Rope) Iterator(start, end int) (*Iterator, error) {
	if start > end {
		return nil, ErrInvalidRange
	}
	if start < 0 || end > r.length {
		return nil, ErrOutOfBounds
	}
	return &Iterator{pieces: r.pieces, start: start, end: end}, nil
}

// Next returns the next zero-copy segment and true, or nil, false when the
// range is exhausted.
func (it *Iterator) Next() ([]byte, bool) {
	for it.start < it.end && it.idx < len(it.pieces) {
		p := it.pieces[it.idx]
		pStart, pEnd := it.offset, it.offset+p.len()
		it.offset = pEnd
		it.idx++

		if pEnd <= it.start {
			continue
		}
		if pStart >= it.end {
			break
		}
		lo, hi := 0, p.len()
		if pStart < it.start {
			lo = it.start - pStart
		}
		if pEnd > it.end {
			hi = it.end - pStart
		}
		it.start = pStart + hi
		return p.data[lo:hi], true
	}
	return nil, false
}

// LineCount returns the cached count if valid, else scans every piece and
// caches the result. An empty rope has line count 1.
func (r *Rope) LineCount() int {
	if r.lines.valid {
		return r.lines.n
	}
	n := 1
	for _, p := range r.pieces {
		for _, b := range p.data {
			if b == '\n' {
				n++
			}
		}
	}
	r.lines.valid = true
	r.lines.n = n
	return n
}

// LineRange returns the [start, end) byte offsets of line n (0-based),
// exclusive of the terminating newline. Fails with ErrOutOfBounds if n
// exceeds the last line.
func (r *Rope) LineRange(n int) (start, end int, err error) {
	if n < 0 {
		return 0, 0, ErrOutOfBounds
	}
	line := 0
	lineStart := 0
	pos := 0
	for _, p := range r.pieces {
		for _, b := range p.data {
			if b == '\n' {
				if line == n {
					return lineStart, pos, nil
				}
				line++
				lineStart = pos + 1
			}
			pos++
		}
	}
	if line == n {
		return lineStart, r.length, nil
	}
	return 0, 0, ErrOutOfBounds
}

// Point is a 0-based line and a byte column counted from the preceding
// newline (not a grapheme-cluster column).
type Point struct {
	Line   int
	Column int
}

// LineColumnAtOffset returns the line/column for byte offset off.
func (r *Rope) LineColumnAtOffset(off int) (Point, error) {
	if off < 0 || off > r.length {
		return Point{}, ErrOutOfBounds
	}
	line := 0
	colStart := 0
	pos := 0
	for _, p := range r.pieces {
		for _, b := range p.data {
			if pos == off {
				return Point{Line: line, Column: pos - colStart}, nil
			}
			if b == '\n' {
				line++
				colStart = pos + 1
			}
			pos++
		}
	}
	return Point{Line: line, Column: pos - colStart}, nil
}

// Snapshot is a frozen, cheap copy of the piece sequence plus the length at
// the point it was taken. It shares storage with the live rope: the arena
// guarantees the bytes outlive any snapshot taken against the same rope.
type Snapshot struct {
	pieces []Piece
	length int
}

// Snapshot produces a frozen reference to the rope's current content.
// O(pieces).
func (r *Rope) Snapshot() Snapshot {
	pieces := make([]Piece, len(r.pieces))
	copy(pieces, r.pieces)
	return Snapshot{pieces: pieces, length: r.length}
}

// Restore replaces the rope's current piece sequence with the snapshot's.
func (r *Rope) Restore(s Snapshot) {
	pieces := make([]Piece, len(s.pieces))
	copy(pieces, s.pieces)
	r.pieces = pieces
	r.length = s.length
	r.lines.valid = false
}

// Len returns the snapshot's length at the time it was taken.
func (s Snapshot) Len() int { return s.length }

// Slice returns the bytes in [start, end) of the snapshot's frozen content.
func (s Snapshot) Slice(start, end int) ([]byte, error) {
	if start > end {
		return nil, ErrInvalidRange
	}
	if start < 0 || end > s.length {
		return nil, ErrOutOfBounds
	}
	out := make([]byte, 0, end-start)
	sum := 0
	for _, p := range s.pieces {
		pStart, pEnd := sum, sum+p.len()
		sum = pEnd
		if pEnd <= start || pStart >= end {
			continue
		}
		lo, hi := 0, p.len()
		if pStart < start {
			lo = start - pStart
		}
		if pEnd > end {
			hi = end - pStart
		}
		out = append(out, p.data[lo:hi]...)
	}
	return out, nil
}
