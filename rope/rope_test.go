package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndSlice(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("hello")))
	require.NoError(t, r.Insert(5, []byte(" world")))

	got, err := r.Slice(0, 11)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	got, err = r.Slice(6, 11)
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))
}

func TestSnapshotIsolation(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("grim")))
	snap := r.Snapshot()

	require.NoError(t, r.Insert(4, []byte(" reaper")))
	require.NoError(t, r.Delete(0, 2))

	got, err := r.Slice(0, r.Len())
	require.NoError(t, err)
	assert.Equal(t, "im reaper", string(got))

	r.Restore(snap)
	got, err = r.Slice(0, r.Len())
	require.NoError(t, err)
	assert.Equal(t, "grim", string(got))
}

func TestInsertRejectsInvalidUTF8(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("ok")))
	err := r.Insert(1, []byte{0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	got, _ := r.Slice(0, r.Len())
	assert.Equal(t, "ok", string(got))
}

func TestInsertOutOfBounds(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("ok")))
	err := r.Insert(99, []byte("x"))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLineCountAndRange(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("line 1\nline 2\nline 3")))
	assert.Equal(t, 3, r.LineCount())

	start, end, err := r.LineRange(1)
	require.NoError(t, err)
	s, _ := r.Slice(start, end)
	assert.Equal(t, "line 2", string(s))

	_, _, err = r.LineRange(5)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestEmptyRopeHasOneLine(t *testing.T) {
	r := New()
	assert.Equal(t, 1, r.LineCount())
}

func TestLineColumnAtOffsetUTF8Boundary(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("日本語")))

	pt, err := r.LineColumnAtOffset(3)
	require.NoError(t, err)
	assert.Equal(t, Point{Line: 0, Column: 3}, pt)

	s, err := r.Slice(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "日", string(s))
}

func TestIteratorCoversRangeInOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("abc")))
	require.NoError(t, r.Insert(3, []byte("def")))
	require.NoError(t, r.Insert(0, []byte("XYZ"))) // splices a third piece at the front

	it, err := r.Iterator(0, r.Len())
	require.NoError(t, err)

	var out []byte
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, chunk...)
	}
	assert.Equal(t, "XYZabcdef", string(out))
}

func TestDeleteSplitsBoundaryPieces(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("hello world")))
	require.NoError(t, r.Delete(4, 3)) // removes "o w"
	s, _ := r.Slice(0, r.Len())
	assert.Equal(t, "hellorld", string(s))
}

func TestDeleteOutOfBounds(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("hi")))
	err := r.Delete(1, 5)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSliceZeroCopyWithinSinglePiece(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, []byte("hello world")))
	view, err := r.Slice(2, 5)
	require.NoError(t, err)

	full, _ := r.Slice(0, r.Len())
	// The zero-copy view must point into the same backing array as the
	// full-piece slice it was carved from.
	assert.Same(t, &full[2], &view[0])
}
