package rope

// chunkSize is the minimum size of a freshly allocated arena chunk.
// Allocations larger than this get their own dedicated chunk.
const chunkSize = 64 * 1024

// Arena is an append-only region allocator. All byte storage for a Rope's
// pieces lives in an Arena; pieces are never mutated in place, so any slice
// returned by Alloc remains valid and unchanged for the lifetime of the
// Arena, even after later inserts/deletes reshape the piece sequence.
//
// Chunks are never reallocated once created: growth only appends new
// chunks, so addresses handed out by Alloc are stable.
type Arena struct {
	chunks [][]byte
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{chunks: make([][]byte, 0, 4)}
}

// Alloc copies data into the arena and returns a stable view over the copy.
// The returned slice is never reallocated or mutated by the arena.
func (a *Arena) Alloc(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	if n := len(a.chunks); n > 0 {
		last := a.chunks[n-1]
		if cap(last)-len(last) >= len(data) {
			start := len(last)
			a.chunks[n-1] = append(last, data...)
			return a.chunks[n-1][start : start+len(data)]
		}
	}

	size := chunkSize
	if len(data) > size {
		size = len(data)
	}
	chunk := make([]byte, 0, size)
	chunk = append(chunk, data...)
	a.chunks = append(a.chunks, chunk)
	return chunk[:len(data)]
}
