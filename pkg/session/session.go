package session

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a session's process.
type Status string

const (
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusExited   Status = "exited"
)

// Config describes how to launch a session's command.
type Config struct {
	Name      string            `json:"name"`
	Command   []string          `json:"command"`
	Cwd       string            `json:"cwd"`
	Env       map[string]string `json:"env,omitempty"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	IsSpawned bool              `json:"isSpawned"`
}

// Info is the JSON-persisted, externally visible view of a session.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Command   []string  `json:"command"`
	Cwd       string    `json:"cwd"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Pid       int       `json:"pid"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	ExitCode  int       `json:"exitCode,omitempty"`
}

// Session owns a single PTY-backed process and the control directory that
// records its lifecycle on disk.
type Session struct {
	ID   string
	Name string

	controlPath string
	manager     *Manager

	mu   sync.RWMutex
	info *Info
	cmd  *exec.Cmd
	pty  *os.File
}

func infoPath(controlPath, id string) string {
	return filepath.Join(controlPath, id, "session.json")
}

// Path returns the session's control directory.
func (s *Session) Path() string {
	return filepath.Join(s.controlPath, s.ID)
}

func newSession(controlPath string, config Config, manager *Manager) (*Session, error) {
	return newSessionWithID(controlPath, uuid.NewString(), config, manager)
}

func newSessionWithID(controlPath string, id string, config Config, manager *Manager) (*Session, error) {
	if config.Width <= 0 {
		config.Width = 80
	}
	if config.Height <= 0 {
		config.Height = 24
	}
	if len(config.Command) == 0 {
		config.Command = []string{defaultShell()}
	}
	if config.Name == "" {
		config.Name = config.Command[0]
	}

	s := &Session{
		ID:          id,
		Name:        config.Name,
		controlPath: controlPath,
		manager:     manager,
		info: &Info{
			ID:        id,
			Name:      config.Name,
			Command:   config.Command,
			Cwd:       config.Cwd,
			Width:     config.Width,
			Height:    config.Height,
			Status:    string(StatusStarting),
			StartedAt: time.Now(),
		},
	}

	if err := os.MkdirAll(s.Path(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := s.persist(); err != nil {
		return nil, err
	}

	return s, nil
}

func loadSession(controlPath, id string, manager *Manager) (*Session, error) {
	data, err := os.ReadFile(infoPath(controlPath, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session info: %w", err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse session info: %w", err)
	}

	return &Session{
		ID:          info.ID,
		Name:        info.Name,
		controlPath: controlPath,
		manager:     manager,
		info:        &info,
	}, nil
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// Start spawns the session's command attached to a new PTY.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := exec.Command(s.info.Command[0], s.info.Command[1:]...)
	if s.info.Cwd != "" {
		cmd.Dir = s.info.Cwd
	}
	cmd.Env = os.Environ()

	ptyFile, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.info.Height),
		Cols: uint16(s.info.Width),
	})
	if err != nil {
		s.info.Status = string(StatusExited)
		return fmt.Errorf("failed to start pty: %w", err)
	}

	s.cmd = cmd
	s.pty = ptyFile
	s.info.Pid = cmd.Process.Pid
	s.info.Status = string(StatusRunning)

	go s.pump()
	go s.wait()

	return s.persistLocked()
}

// pump reads PTY output and fans it out through the owning manager's
// registered callbacks.
func (s *Session) pump() {
	buf := make([]byte, 32*1024)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if s.manager != nil {
				s.manager.NotifyDirectOutput(s.ID, chunk)
				s.manager.NotifyRawPTY(s.ID, chunk)
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) wait() {
	err := s.cmd.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.info.Status = string(StatusExited)
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			s.info.ExitCode = ws.ExitStatus()
		}
	}
	_ = s.persistLocked()
}

// Write sends input bytes to the session's PTY.
func (s *Session) Write(data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pty == nil {
		return fmt.Errorf("session %s has no active pty", s.ID)
	}
	_, err := s.pty.Write(data)
	return err
}

// Resize changes the PTY's window size.
func (s *Session) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.info.Width = width
	s.info.Height = height

	if s.pty != nil {
		if err := pty.Setsize(s.pty, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}); err != nil {
			return fmt.Errorf("failed to resize pty: %w", err)
		}
	}
	return s.persistLocked()
}

// IsAlive reports whether the session's process is still running.
func (s *Session) IsAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.info.Status != string(StatusRunning) {
		return false
	}
	if s.info.Pid == 0 {
		return false
	}
	return syscall.Kill(s.info.Pid, 0) == nil
}

// UpdateStatus refreshes the persisted status from the live process state.
func (s *Session) UpdateStatus() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.info.Status == string(StatusExited) {
		return nil
	}
	if s.info.Pid != 0 && syscall.Kill(s.info.Pid, 0) != nil {
		s.info.Status = string(StatusExited)
	}
	return s.persistLocked()
}

// GetInfo returns a snapshot of the session's persisted info.
func (s *Session) GetInfo() *Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infoCopy := *s.info
	return &infoCopy
}

func (s *Session) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Session) persistLocked() error {
	data, err := json.MarshalIndent(s.info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session info: %w", err)
	}
	return os.WriteFile(infoPath(s.controlPath, s.ID), data, 0o644)
}
