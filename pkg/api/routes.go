// Package api exposes the editor's sessions over HTTP: REST endpoints for
// session lifecycle, a raw PTY WebSocket channel, and a structured
// snapshot WebSocket channel backed by the terminal screen model. Picker
// operations are not served here.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/vtcore/editor/pkg/session"
	"github.com/vtcore/editor/pkg/termsocket"
	"github.com/vtcore/editor/terminal"
)

var errMissingSessionParam = errors.New("missing session query parameter")

// Server wires the session manager, terminal socket manager, and HTTP
// routes together.
type Server struct {
	sessions *session.Manager
	sockets  *termsocket.Manager
	router   *mux.Router
}

// NewServer builds a Server with all routes registered.
func NewServer(sessions *session.Manager, sockets *termsocket.Manager) *Server {
	s := &Server{
		sessions: sessions,
		sockets:  sockets,
		router:   mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Router returns the underlying handler for use with http.Server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/api/sessions", s.listSessions).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sessions", s.createSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{id}", s.getSession).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sessions/{id}", s.deleteSession).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/sessions/{id}/resize", s.resizeSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{id}/input", s.writeSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{id}/snapshot", s.getSnapshot).Methods(http.MethodGet)

	s.router.Handle("/ws/raw", NewRawWebSocketHandler(s.sessions))
	s.router.HandleFunc("/ws/snapshot", s.snapshotWebSocket)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.ListSessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

type createSessionRequest struct {
	Name    string   `json:"name"`
	Command []string `json:"command"`
	Cwd     string   `json:"cwd"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess, err := s.sessions.CreateSession(session.Config{
		Name:    req.Name,
		Command: req.Command,
		Cwd:     req.Cwd,
		Width:   req.Width,
		Height:  req.Height,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.GetInfo())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.GetInfo())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.RemoveSession(id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) resizeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.Resize(req.Width, req.Height); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type writeRequest struct {
	Data string `json:"data"`
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.Write([]byte(req.Data)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	screen, err := s.sockets.Snapshot(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, screen.SerializeRows())
}

// snapshotWebSocket streams binary screen snapshots for ?session=<id>
// whenever the session's terminal screen changes.
func (s *Server) snapshotWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, errMissingSessionParam)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	unsubscribe, err := s.sockets.Subscribe(sessionID, func(id string, scr *terminal.Screen) {
		_ = conn.WriteMessage(websocket.BinaryMessage, scr.SerializeRows())
	})
	if err != nil {
		return
	}
	defer unsubscribe()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
