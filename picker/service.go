// Package picker wraps the fuzzy finder with a filesystem watcher so a
// file picker stays current as entries are created, removed or renamed
// directly in its root directory, without re-walking on every keystroke.
// Subdirectories are not watched.
package picker

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/vtcore/editor/fuzzy"
)

// Service owns a Picker over a root directory and keeps it reindexed when
// the watcher reports changes.
type Service struct {
	root     string
	maxDepth int

	mu     sync.RWMutex
	finder *fuzzy.Finder
	picker *fuzzy.Picker

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewService walks root, builds a Picker over the result, and starts
// watching root for changes. Callers must call Close when done.
func NewService(root string, maxDepth int) (*Service, error) {
	s := &Service{
		root:     root,
		maxDepth: maxDepth,
		done:     make(chan struct{}),
	}

	if err := s.reindex(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	s.watcher = watcher

	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go s.watchLoop()

	return s, nil
}

func (s *Service) reindex() error {
	finder := fuzzy.NewFinder()
	if err := finder.FindFiles(s.root, s.maxDepth); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := ""
	if s.picker != nil {
		query = s.picker.Query()
	}
	s.finder = finder
	s.picker = fuzzy.NewPicker(finder)
	if query != "" {
		s.picker.UpdateQuery(query)
	}
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := s.reindex(); err != nil {
					log.Printf("[WARN] picker reindex failed: %v", err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WARN] picker watcher error: %v", err)
		case <-s.done:
			return
		}
	}
}

// UpdateQuery re-filters the current index against query.
func (s *Service) UpdateQuery(query string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.picker.UpdateQuery(query)
}

// MoveSelection shifts the current selection by delta, clamped to the
// result bounds.
func (s *Service) MoveSelection(delta int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.picker.MoveSelection(delta)
}

// Selected returns the currently selected entry, if any.
func (s *Service) Selected() (fuzzy.ScoredEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picker.Selected()
}

// Results returns the current filtered result set.
func (s *Service) Results() []fuzzy.ScoredEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picker.Results()
}

// Close stops the watcher and its goroutine.
func (s *Service) Close() error {
	close(s.done)
	return s.watcher.Close()
}
