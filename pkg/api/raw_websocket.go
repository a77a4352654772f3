package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vtcore/editor/pkg/session"
)

// rawDebounce is how long subscribeToRawPTY coalesces bursts of PTY output
// before flushing to the client — short enough that a pane feels live, long
// enough to collapse a tight redraw loop (e.g. a progress bar) into one
// frame.
const rawDebounce = 50 * time.Millisecond

// RawWebSocketHandler streams a shell pane's PTY bytes to a client
// unprocessed, bypassing the screen model entirely — for clients that want
// to run their own terminal emulator (e.g. a browser xterm.js instance)
// rather than consume SerializeRows snapshots.
type RawWebSocketHandler struct {
	manager *session.Manager
}

func NewRawWebSocketHandler(manager *session.Manager) *RawWebSocketHandler {
	return &RawWebSocketHandler{manager: manager}
}

func (h *RawWebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[raw-ws] upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("[raw-ws] close failed: %v", err)
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[raw-ws] set read deadline failed: %v", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	send := make(chan []byte, 256)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	go h.writer(conn, send, ticker, done)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[raw-ws] read error: %v", err)
			}
			closeDone()
			return
		}

		if messageType == websocket.TextMessage {
			h.handleControlMessage(message, send, done, closeDone)
		}
	}
}

func (h *RawWebSocketHandler) handleControlMessage(message []byte, send chan []byte, done chan struct{}, closeFunc func()) {
	var msg struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("[raw-ws] malformed control message: %v", err)
		return
	}

	switch msg.Type {
	case "ping":
		pong, _ := json.Marshal(map[string]string{"type": "pong"})
		safeSend(send, pong, done)

	case "subscribe":
		if msg.SessionID == "" {
			return
		}
		go h.subscribeToRawPTY(msg.SessionID, send, done)

	case "unsubscribe":
		closeFunc()
	}
}

// subscribeToRawPTY sends the pane's current dimensions once up front (so a
// client can size its own emulator before any bytes arrive) and then
// forwards raw PTY output, debounced by rawDebounce, until done fires.
func (h *RawWebSocketHandler) subscribeToRawPTY(sessionID string, send chan []byte, done chan struct{}) {
	if sess, err := h.manager.GetSession(sessionID); err == nil {
		info := sess.GetInfo()
		if frame, err := json.Marshal(map[string]interface{}{
			"type": "pane-size",
			"cols": info.Width,
			"rows": info.Height,
		}); err == nil {
			safeSend(send, frame, done)
		}
	}

	var (
		mu        sync.Mutex
		pending   []byte
		flushTime *time.Timer
	)

	flush := func() {
		mu.Lock()
		data := pending
		pending = nil
		mu.Unlock()
		if data != nil {
			safeSend(send, data, done)
		}
	}

	h.manager.RegisterRawPTYCallback(sessionID, func(_ string, data []byte) {
		mu.Lock()
		pending = append(pending, data...)
		if flushTime != nil {
			flushTime.Stop()
		}
		flushTime = time.AfterFunc(rawDebounce, flush)
		mu.Unlock()
	})
	defer h.manager.UnregisterRawPTYCallback(sessionID)

	<-done

	mu.Lock()
	if flushTime != nil {
		flushTime.Stop()
	}
	mu.Unlock()
}

func (h *RawWebSocketHandler) writer(conn *websocket.Conn, send chan []byte, ticker *time.Ticker, done chan struct{}) {
	defer close(send)

	for {
		select {
		case message, ok := <-send:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("[raw-ws] set write deadline failed: %v", err)
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("[raw-ws] set write deadline for ping failed: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
