package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zstar1003/Tosticker/internal/logging"
	"github.com/zstar1003/Tosticker/internal/models"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, have %d", n, h.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNotifyDeliversReminder(t *testing.T) {
	hub := NewHub(logging.Discard(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	first := dial(t, srv)
	defer first.Close()
	second := dial(t, srv)
	defer second.Close()
	waitForClients(t, hub, 2)

	todo := models.Todo{ID: "t1", Title: "stand-up", Priority: models.PriorityHigh}
	if err := hub.Notify(context.Background(), todo); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}

		var got struct {
			Event   string      `json:"event"`
			Payload models.Todo `json:"payload"`
		}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Invalid event JSON: %v", err)
		}
		if got.Event != EventTodoReminder {
			t.Errorf("Expected event %s, got %s", EventTodoReminder, got.Event)
		}
		if got.Payload.ID != "t1" || got.Payload.Title != "stand-up" {
			t.Errorf("Unexpected payload: %+v", got.Payload)
		}
	}
}

func TestNotifyWithoutClients(t *testing.T) {
	hub := NewHub(logging.Discard(), nil)
	if err := hub.Notify(context.Background(), models.Todo{ID: "x"}); err != nil {
		t.Errorf("Notify with no clients should succeed, got %v", err)
	}
}

func TestClientDisconnectIsRemoved(t *testing.T) {
	hub := NewHub(logging.Discard(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(logging.Discard(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.Close()
	if hub.Count() != 0 {
		t.Errorf("Expected no clients after Close, got %d", hub.Count())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed")
	}
}
