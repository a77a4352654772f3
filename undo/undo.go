// Package undo implements linear undo/redo over full content snapshots,
// bounded to a configurable history depth.
package undo

// Snapshot is one recorded point in a document's history: a full copy of
// its content plus enough metadata to restore the cursor and label the
// edit in a history view.
type Snapshot struct {
	Content      []byte
	CursorOffset int
	Timestamp    int64
	Description  string
}

// Source is anything an UndoStack can capture a full copy of. rope.Rope
// satisfies this via Slice(0, Len()).
type Source interface {
	Len() int
	Slice(start, end int) ([]byte, error)
}

// Stack is an array of Snapshots with a current_index pointing at the
// currently-applied snapshot (-1 for empty) and a bound on retained
// history. Full content copies are used — rather than deltas — because
// the stack must survive arbitrary future edits to the live document that
// it cannot itself observe, including edits made through an arena the
// stack holds no reference to.
type Stack struct {
	snapshots []Snapshot
	current   int
	max       int
}

// NewStack returns an empty stack bounded to max retained snapshots. max
// must be at least 1; values below that are treated as 1.
func NewStack(max int) *Stack {
	if max < 1 {
		max = 1
	}
	return &Stack{current: -1, max: max}
}

// Record captures a full copy of src's content at cursorOffset, truncates
// any redo tail past the current index, appends the new snapshot, and
// evicts the oldest snapshot (decrementing current) if the bound is
// exceeded.
func (s *Stack) Record(src Source, cursorOffset int, timestamp int64, description string) error {
	content, err := src.Slice(0, src.Len())
	if err != nil {
		return err
	}
	cp := make([]byte, len(content))
	copy(cp, content)

	s.snapshots = append(s.snapshots[:s.current+1], Snapshot{
		Content:      cp,
		CursorOffset: cursorOffset,
		Timestamp:    timestamp,
		Description:  description,
	})
	s.current = len(s.snapshots) - 1

	if len(s.snapshots) > s.max {
		s.snapshots = s.snapshots[1:]
		s.current--
	}
	return nil
}

// Undo moves current back one step and returns the snapshot now current,
// or ok=false if already at the oldest recorded state.
func (s *Stack) Undo() (snap Snapshot, ok bool) {
	if !s.CanUndo() {
		return Snapshot{}, false
	}
	s.current--
	return s.snapshots[s.current], true
}

// Redo moves current forward one step and returns the snapshot now
// current, or ok=false if already at the newest recorded state.
func (s *Stack) Redo() (snap Snapshot, ok bool) {
	if !s.CanRedo() {
		return Snapshot{}, false
	}
	s.current++
	return s.snapshots[s.current], true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack) CanUndo() bool { return s.current > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack) CanRedo() bool { return s.current < len(s.snapshots)-1 }

// Len returns the number of retained snapshots.
func (s *Stack) Len() int { return len(s.snapshots) }

// CurrentIndex returns the index of the currently-applied snapshot, or -1
// if the stack is empty.
func (s *Stack) CurrentIndex() int { return s.current }
