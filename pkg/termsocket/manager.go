// Package termsocket bridges live sessions to subscribers (WebSocket
// handlers, in-process watchers) by feeding each session's PTY output
// through a terminal screen model and fanning out snapshots.
package termsocket

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vtcore/editor/pkg/session"
	"github.com/vtcore/editor/terminal"
)

// SessionScreen holds a session's live screen model and the parser feeding
// it PTY bytes.
type SessionScreen struct {
	Session *session.Session
	Screen  *terminal.Screen
	Parser  *terminal.Parser

	mu      sync.RWMutex
	lastSeq uint64
	seq     uint64
}

// Manager keeps one SessionScreen per live session and notifies subscribers
// when a session's screen changes.
type Manager struct {
	sessionManager *session.Manager
	screens        map[string]*SessionScreen
	mu             sync.RWMutex

	subscribers map[string][]chan *terminal.Screen
	subMu       sync.RWMutex

	shutdownCh chan struct{}
	wg         sync.WaitGroup

	notificationTimers map[string]*time.Timer
	timerMu            sync.RWMutex
}

// NewManager creates a terminal socket manager over sessionManager.
func NewManager(sessionManager *session.Manager) *Manager {
	return &Manager{
		sessionManager:     sessionManager,
		screens:            make(map[string]*SessionScreen),
		subscribers:        make(map[string][]chan *terminal.Screen),
		shutdownCh:         make(chan struct{}),
		notificationTimers: make(map[string]*time.Timer),
	}
}

// GetOrCreateScreen returns the screen model for sessionID, creating it (and
// starting PTY monitoring) on first use.
func (m *Manager) GetOrCreateScreen(sessionID string) (*SessionScreen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ss, exists := m.screens[sessionID]; exists {
		return ss, nil
	}

	sess, err := m.sessionManager.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	info := sess.GetInfo()
	screen := terminal.NewScreen(info.Width, info.Height)

	ss := &SessionScreen{
		Session: sess,
		Screen:  screen,
		Parser:  terminal.NewParser(screen),
	}
	m.screens[sessionID] = ss

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.monitorSession(sessionID, ss)
	}()

	return ss, nil
}

// Snapshot returns the screen model for a session, creating it if needed.
func (m *Manager) Snapshot(sessionID string) (*terminal.Screen, error) {
	ss, err := m.GetOrCreateScreen(sessionID)
	if err != nil {
		return nil, err
	}

	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.Screen, nil
}

// Subscribe registers callback to receive the screen model whenever it
// changes for sessionID. The returned func unsubscribes.
func (m *Manager) Subscribe(sessionID string, callback func(string, *terminal.Screen)) (func(), error) {
	if _, err := m.GetOrCreateScreen(sessionID); err != nil {
		return nil, err
	}

	ch := make(chan *terminal.Screen, 10)

	m.subMu.Lock()
	m.subscribers[sessionID] = append(m.subscribers[sessionID], ch)
	m.subMu.Unlock()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case scr := <-ch:
				callback(sessionID, scr)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		m.subMu.Lock()
		defer m.subMu.Unlock()

		subs := m.subscribers[sessionID]
		for i, sub := range subs {
			if sub == ch {
				m.subscribers[sessionID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		if len(m.subscribers[sessionID]) == 0 {
			delete(m.subscribers, sessionID)
		}
	}, nil
}

// monitorSession feeds PTY output through the parser and watches for the
// session's process exiting.
func (m *Manager) monitorSession(sessionID string, ss *SessionScreen) {
	if sessionManager := m.sessionManager; sessionManager != nil {
		sessionManager.RegisterDirectOutputCallback(sessionID, func(sid string, data []byte) {
			ss.mu.Lock()
			ss.Parser.Process(data)
			ss.seq++
			ss.mu.Unlock()

			m.scheduleNotification(sessionID, ss)
		})
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !ss.Session.IsAlive() {
				m.cleanup(sessionID)
				return
			}

		case <-m.shutdownCh:
			m.cleanup(sessionID)
			return
		}
	}
}

func (m *Manager) cleanup(sessionID string) {
	m.timerMu.Lock()
	if timer, exists := m.notificationTimers[sessionID]; exists && timer != nil {
		timer.Stop()
		delete(m.notificationTimers, sessionID)
	}
	m.timerMu.Unlock()

	m.mu.Lock()
	delete(m.screens, sessionID)
	m.mu.Unlock()
}

// scheduleNotification debounces change notifications by 50ms so bursts of
// PTY output collapse into a single snapshot push.
func (m *Manager) scheduleNotification(sessionID string, ss *SessionScreen) {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if timer, exists := m.notificationTimers[sessionID]; exists && timer != nil {
		timer.Stop()
	}

	m.notificationTimers[sessionID] = time.AfterFunc(50*time.Millisecond, func() {
		ss.mu.Lock()
		changed := ss.seq != ss.lastSeq
		ss.lastSeq = ss.seq
		ss.mu.Unlock()

		if changed {
			m.notifySubscribers(sessionID, ss.Screen)
		}

		m.timerMu.Lock()
		delete(m.notificationTimers, sessionID)
		m.timerMu.Unlock()
	})
}

func (m *Manager) notifySubscribers(sessionID string, scr *terminal.Screen) {
	m.subMu.RLock()
	subs := m.subscribers[sessionID]
	m.subMu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- scr:
		default:
		}
	}
}

// Shutdown stops all session monitors and closes every subscriber channel.
func (m *Manager) Shutdown() {
	log.Println("[INFO] shutting down terminal socket manager")

	close(m.shutdownCh)
	m.wg.Wait()

	m.subMu.Lock()
	for _, subs := range m.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	m.subscribers = make(map[string][]chan *terminal.Screen)
	m.subMu.Unlock()

	m.mu.Lock()
	m.screens = make(map[string]*SessionScreen)
	m.mu.Unlock()

	log.Println("[INFO] terminal socket manager shutdown complete")
}
