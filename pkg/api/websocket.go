package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxMessageSize bounds inbound control messages (ping/subscribe/unsubscribe).
	maxMessageSize = 1024

	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait; it is how often the server
	// pings an idle connection.
	pingPeriod = (pongWait * 9) / 10

	// writeWait bounds how long a single write may block.
	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// safeSend attempts a non-blocking send on ch, returning false if done has
// already fired or the channel is full.
func safeSend(ch chan []byte, data []byte, done chan struct{}) bool {
	select {
	case ch <- data:
		return true
	case <-done:
		return false
	default:
		return false
	}
}
