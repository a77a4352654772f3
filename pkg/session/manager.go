package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DirectOutputCallback is called when PTY output is available.
type DirectOutputCallback func(sessionID string, data []byte)

// RawPTYCallback is called synchronously with raw PTY bytes, bypassing the
// debounced direct-output path; used by the raw WebSocket channel that
// streams a shell pane's output to an attached client.
type RawPTYCallback func(sessionID string, data []byte)

type callbackHandle struct {
	id int
	cb DirectOutputCallback
}

type rawCallbackHandle struct {
	id int
	cb RawPTYCallback
}

// Manager indexes the editor's shell-pane sessions by ID, loading them from
// disk on demand and fanning out PTY output to registered callbacks.
type Manager struct {
	controlPath         string
	runningSessions     map[string]*Session
	mutex               sync.RWMutex
	doNotAllowColumnSet bool

	callbackMutex         sync.RWMutex
	directOutputCallbacks map[string][]callbackHandle
	nextCallbackID        int

	rawCallbackMutex sync.RWMutex
	rawPTYCallbacks  map[string][]rawCallbackHandle
	nextRawID        int
}

// NewManager returns a Manager rooted at controlPath, where each session
// gets its own subdirectory holding its persisted Info.
func NewManager(controlPath string) *Manager {
	return &Manager{
		controlPath:           controlPath,
		runningSessions:       make(map[string]*Session),
		directOutputCallbacks: make(map[string][]callbackHandle),
		rawPTYCallbacks:       make(map[string][]rawCallbackHandle),
	}
}

// SetDoNotAllowColumnSet sets the resize-disable flag that
// GetDoNotAllowColumnSet reports. Nothing in this package consults the
// flag: Session.Resize resizes the PTY whatever its value.
func (m *Manager) SetDoNotAllowColumnSet(value bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.doNotAllowColumnSet = value
}

// GetDoNotAllowColumnSet returns the current value of the resize disable flag.
func (m *Manager) GetDoNotAllowColumnSet() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.doNotAllowColumnSet
}

// RunningCount returns how many sessions this Manager currently tracks as
// running, for a status-line indicator of background shell panes.
func (m *Manager) RunningCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	count := 0
	for _, sess := range m.runningSessions {
		if sess.GetInfo().Status == string(StatusRunning) {
			count++
		}
	}
	return count
}

func (m *Manager) CreateSession(config Config) (*Session, error) {
	if err := os.MkdirAll(m.controlPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create control directory: %w", err)
	}

	sess, err := newSession(m.controlPath, config, m)
	if err != nil {
		return nil, err
	}

	return m.start(sess, config)
}

func (m *Manager) CreateSessionWithID(id string, config Config) (*Session, error) {
	if err := os.MkdirAll(m.controlPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create control directory: %w", err)
	}

	sess, err := newSessionWithID(m.controlPath, id, config, m)
	if err != nil {
		return nil, err
	}

	return m.start(sess, config)
}

// start launches sess's PTY unless config marks it spawned (a pane created
// ahead of the terminal attaching to it), then registers sess in the
// running-sessions index. A spawned session is registered without a PTY;
// Manager does not start it later.
func (m *Manager) start(sess *Session, config Config) (*Session, error) {
	if !config.IsSpawned {
		if err := sess.Start(); err != nil {
			if removeErr := os.RemoveAll(sess.Path()); removeErr != nil {
				log.Printf("[ERROR] failed to remove session path after start failure: %v", removeErr)
			}
			return nil, err
		}
	} else if os.Getenv("VTCORE_DEBUG") != "" {
		log.Printf("[DEBUG] created spawned session %s - waiting for pane to attach", sess.ID[:8])
	}

	m.mutex.Lock()
	m.runningSessions[sess.ID] = sess
	m.mutex.Unlock()

	return sess, nil
}

func (m *Manager) GetSession(id string) (*Session, error) {
	m.mutex.RLock()
	if sess, exists := m.runningSessions[id]; exists {
		m.mutex.RUnlock()
		return sess, nil
	}
	m.mutex.RUnlock()

	// Fall back to loading from disk, for sessions started by an earlier
	// Manager instance (e.g. across a server restart).
	return loadSession(m.controlPath, id, m)
}

func (m *Manager) FindSession(nameOrID string) (*Session, error) {
	infos, err := m.ListSessions()
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.ID == nameOrID || info.Name == nameOrID || strings.HasPrefix(info.ID, nameOrID) {
			return m.GetSession(info.ID)
		}
	}

	return nil, fmt.Errorf("session not found: %s", nameOrID)
}

func (m *Manager) ListSessions() ([]*Info, error) {
	entries, err := os.ReadDir(m.controlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Info{}, nil
		}
		return nil, err
	}

	infos := make([]*Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		sess, err := loadSession(m.controlPath, entry.Name(), m)
		if err != nil {
			if os.Getenv("VTCORE_DEBUG") != "" {
				log.Printf("[DEBUG] failed to load session %s: %v", entry.Name(), err)
			}
			continue
		}

		// Only re-check liveness if not already marked exited, to avoid a
		// syscall per listed session once it's settled.
		info := sess.GetInfo()
		if info.Status != string(StatusExited) {
			if err := sess.UpdateStatus(); err != nil {
				log.Printf("[WARN] failed to update session status for %s: %v", sess.ID, err)
			}
			info = sess.GetInfo()
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})

	return infos, nil
}

// CleanupExitedSessions refreshes every session's status without removing
// anything from disk; see RemoveExitedSessions for actual cleanup.
func (m *Manager) CleanupExitedSessions() error {
	return m.UpdateAllSessionStatuses()
}

// RemoveExitedSessions deletes the control directory of every session whose
// process is no longer alive.
func (m *Manager) RemoveExitedSessions() error {
	infos, err := m.ListSessions()
	if err != nil {
		return err
	}

	var errs []error
	for _, info := range infos {
		sess, err := m.GetSession(info.ID)
		shouldRemove := err != nil || info.Pid == 0 || !sess.IsAlive()

		if shouldRemove {
			sessionPath := filepath.Join(m.controlPath, info.ID)
			if err := os.RemoveAll(sessionPath); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", info.ID, err))
			} else {
				log.Printf("[INFO] cleaned up session: %s", info.ID)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// UpdateAllSessionStatuses refreshes the persisted status of every session.
func (m *Manager) UpdateAllSessionStatuses() error {
	infos, err := m.ListSessions()
	if err != nil {
		return err
	}

	for _, info := range infos {
		if sess, err := m.GetSession(info.ID); err == nil {
			if err := sess.UpdateStatus(); err != nil {
				log.Printf("[WARN] failed to update session status for %s: %v", info.ID, err)
			}
		}
	}
	return nil
}

func (m *Manager) RemoveSession(id string) error {
	m.mutex.Lock()
	delete(m.runningSessions, id)
	m.mutex.Unlock()

	m.callbackMutex.Lock()
	delete(m.directOutputCallbacks, id)
	m.callbackMutex.Unlock()

	m.rawCallbackMutex.Lock()
	delete(m.rawPTYCallbacks, id)
	m.rawCallbackMutex.Unlock()

	sessionPath := filepath.Join(m.controlPath, id)
	return os.RemoveAll(sessionPath)
}

// RegisterDirectOutputCallback registers callback to receive sessionID's PTY
// output, debounced by the caller (see pkg/termsocket). It returns no
// handle; UnregisterDirectOutputCallback removes a session's callbacks.
func (m *Manager) RegisterDirectOutputCallback(sessionID string, callback DirectOutputCallback) {
	m.callbackMutex.Lock()
	defer m.callbackMutex.Unlock()

	m.nextCallbackID++
	m.directOutputCallbacks[sessionID] = append(m.directOutputCallbacks[sessionID], callbackHandle{id: m.nextCallbackID, cb: callback})
}

// UnregisterDirectOutputCallback removes every direct-output callback
// registered for sessionID. callback is accepted for API symmetry with
// RegisterDirectOutputCallback but is not used to single out one
// registration, since Go funcs are not comparable; callers that register
// more than one callback per session should track sessions 1:1 with
// subscribers instead.
func (m *Manager) UnregisterDirectOutputCallback(sessionID string, callback DirectOutputCallback) {
	m.callbackMutex.Lock()
	defer m.callbackMutex.Unlock()
	delete(m.directOutputCallbacks, sessionID)
}

// NotifyDirectOutput notifies all registered callbacks of new PTY output,
// each in its own goroutine so a slow subscriber cannot stall the PTY
// reader.
func (m *Manager) NotifyDirectOutput(sessionID string, data []byte) {
	m.callbackMutex.RLock()
	handles := m.directOutputCallbacks[sessionID]
	m.callbackMutex.RUnlock()

	for _, h := range handles {
		go h.cb(sessionID, data)
	}
}

// RegisterRawPTYCallback registers callback to receive sessionID's raw PTY
// bytes synchronously, with no debouncing.
func (m *Manager) RegisterRawPTYCallback(sessionID string, callback RawPTYCallback) {
	m.rawCallbackMutex.Lock()
	defer m.rawCallbackMutex.Unlock()

	m.nextRawID++
	m.rawPTYCallbacks[sessionID] = append(m.rawPTYCallbacks[sessionID], rawCallbackHandle{id: m.nextRawID, cb: callback})
}

// UnregisterRawPTYCallback removes every raw PTY callback registered for
// sessionID.
func (m *Manager) UnregisterRawPTYCallback(sessionID string) {
	m.rawCallbackMutex.Lock()
	defer m.rawCallbackMutex.Unlock()
	delete(m.rawPTYCallbacks, sessionID)
}

// NotifyRawPTY calls every raw callback registered for sessionID inline, so
// ordering matches the order bytes were read from the PTY.
func (m *Manager) NotifyRawPTY(sessionID string, data []byte) {
	m.rawCallbackMutex.RLock()
	handles := m.rawPTYCallbacks[sessionID]
	m.rawCallbackMutex.RUnlock()

	for _, h := range handles {
		h.cb(sessionID, data)
	}
}
