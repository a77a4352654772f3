package rope

// Piece is an immutable view into arena-owned storage. Pieces never mutate;
// splitting a piece produces two new pieces referencing disjoint ranges of
// the same underlying bytes, so any snapshot still holding the original
// piece observes unchanged data.
type Piece struct {
	data []byte
}

func (p Piece) len() int { return len(p.data) }
