package livegrade

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	conn := dialHub(t, srv)

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.ClientCount() != 1 {
		t.Fatalf("expected 1 registered client, got %d", h.ClientCount())
	}

	event := ProgressEvent{RunID: "r1", File: "a.json", Mode: "rubric", Pass: true, Ordinal: 1, Total: 2}
	if err := h.Broadcast(event); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got ProgressEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "r1" || got.File != "a.json" || !got.Pass {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	conn := dialHub(t, srv)

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for h.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected client to unregister after disconnect, still have %d", h.ClientCount())
	}
}
