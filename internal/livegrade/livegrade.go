// Package livegrade streams grading progress over a WebSocket so
// `fsmgrade rubric --watch` can show results as each file finishes
// instead of waiting for the whole batch. Grounded on the teacher's
// internal/network WebSocketServer/WebSocketConn (upgrader-backed HTTP
// server, a clients map guarded by a mutex, broadcast-to-all), narrowed
// from a general-purpose scripting primitive down to a single
// fire-and-forget progress feed.
package livegrade

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ProgressEvent is one update pushed to every connected client: a file
// finished grading, with its outcome.
type ProgressEvent struct {
	RunID   string    `json:"runId"`
	File    string    `json:"file"`
	Mode    string    `json:"mode"` // "gate" or "rubric"
	Pass    bool      `json:"pass"`
	Score   float64   `json:"score,omitempty"`
	Weight  float64   `json:"weight,omitempty"`
	Issues  []string  `json:"issues,omitempty"`
	At      time.Time `json:"at"`
	Done    bool      `json:"done"`
	Total   int       `json:"total"`
	Ordinal int       `json:"ordinal"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	mu   sync.Mutex
}

func (c *client) writeMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is a WebSocket broadcast server for progress events. Build one
// with NewHub; the zero value has no client map and is not usable.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[string]*client
	seq      int
}

// NewHub builds a Hub that accepts connections from any origin, the
// same permissive default the teacher's WebSocketServer leaves to its
// caller to tighten.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the
// resulting connection as a broadcast recipient until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.seq++
	id := fmt.Sprintf("watch_%d", h.seq)
	c := &client{conn: conn}
	h.clients[id] = c
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends event as JSON to every connected client. A client whose
// write fails stays registered until its ServeHTTP goroutine sees the
// disconnect; the last write error is returned.
func (h *Hub) Broadcast(event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var lastErr error
	for _, c := range clients {
		if err := c.writeMessage(data); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ClientCount reports how many watchers are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve starts an HTTP server exposing the hub at /ws on addr. The
// returned *http.Server is already listening in a background
// goroutine; callers should Close or Shutdown it when the watch session
// ends.
func Serve(addr string, h *Hub) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Watchers int `json:"watchers"`
		}{Watchers: h.ClientCount()})
	})
	srv := &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go srv.Serve(ln)
	return srv, nil
}
