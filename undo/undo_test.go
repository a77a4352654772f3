package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtcore/editor/rope"
)

func recordString(t *testing.T, s *Stack, r *rope.Rope, cursor int, ts int64, desc string) {
	t.Helper()
	require.NoError(t, s.Record(r, cursor, ts, desc))
}

func TestRecordUndoRestoresPriorContent(t *testing.T) {
	r := rope.New()
	s := NewStack(10)

	require.NoError(t, r.Insert(0, []byte("a")))
	recordString(t, s, r, 1, 1, "insert a")

	require.NoError(t, r.Insert(1, []byte("b")))
	recordString(t, s, r, 2, 2, "insert b")

	snap, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", string(snap.Content))
	assert.Equal(t, 1, snap.CursorOffset)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	r := rope.New()
	s := NewStack(10)

	require.NoError(t, r.Insert(0, []byte("a")))
	recordString(t, s, r, 1, 1, "insert a")
	require.NoError(t, r.Insert(1, []byte("b")))
	recordString(t, s, r, 2, 2, "insert b")

	_, ok := s.Undo()
	require.True(t, ok)

	snap, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, "ab", string(snap.Content))
}

func TestUndoAtBoundaryReturnsFalse(t *testing.T) {
	s := NewStack(10)
	_, ok := s.Undo()
	assert.False(t, ok)
	assert.False(t, s.CanUndo())
}

func TestEvictsOldestWhenOverBound(t *testing.T) {
	r := rope.New()
	s := NewStack(2)

	require.NoError(t, r.Insert(0, []byte("a")))
	recordString(t, s, r, 0, 1, "a")
	require.NoError(t, r.Insert(1, []byte("b")))
	recordString(t, s, r, 0, 2, "b")
	require.NoError(t, r.Insert(2, []byte("c")))
	recordString(t, s, r, 0, 3, "c")

	require.Equal(t, 2, s.Len())
	// The oldest ("a") must be gone; undo should land on "ab", not "a".
	snap, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "ab", string(snap.Content))
	assert.False(t, s.CanUndo())
}

func TestRecordAtNonTipTruncatesRedo(t *testing.T) {
	r := rope.New()
	s := NewStack(10)

	require.NoError(t, r.Insert(0, []byte("a")))
	recordString(t, s, r, 0, 1, "a")
	require.NoError(t, r.Insert(1, []byte("b")))
	recordString(t, s, r, 0, 2, "ab")
	require.NoError(t, r.Insert(2, []byte("c")))
	recordString(t, s, r, 0, 3, "abc")

	_, ok := s.Undo() // back to "ab"
	require.True(t, ok)

	require.NoError(t, r.Delete(0, 2)) // rope now "c" in this test's bookkeeping
	recordString(t, s, r, 0, 4, "delete ab")

	assert.False(t, s.CanRedo())
	assert.Equal(t, 3, s.Len())
}
