package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campushub/cafe/internal/auth"
	"github.com/campushub/cafe/internal/enum"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, role enum.Role) *Client {
	return &Client{
		hub:  hub,
		role: role,
		send: make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, enum.RoleAdmin)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.rooms[enum.RoleAdmin][client] {
		t.Fatal("client not registered in admin room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, enum.RoleAdmin)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	if n := hub.Clients(enum.RoleAdmin); n != 0 {
		t.Fatalf("clients after unregister: got %d, want 0", n)
	}
	if _, open := <-client.send; open {
		t.Error("send channel not closed")
	}
}

func TestBroadcastToRole(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	admin1 := mockClient(hub, enum.RoleAdmin)
	admin2 := mockClient(hub, enum.RoleAdmin)
	user := mockClient(hub, enum.RoleUser)
	hub.register <- admin1
	hub.register <- admin2
	hub.register <- user
	time.Sleep(10 * time.Millisecond)

	event, err := NewEvent(enum.EventStockUpdated, map[string]int{"item_id": 5, "stock": 9})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	hub.BroadcastToRole(enum.RoleAdmin, event)

	for i, client := range []*Client{admin1, admin2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("admin%d: unmarshal: %v", i+1, err)
			}
			if received.Type != enum.EventStockUpdated {
				t.Errorf("admin%d: type %q", i+1, received.Type)
			}
			if string(received.Payload) != `{"item_id":5,"stock":9}` {
				t.Errorf("admin%d: payload %s", i+1, received.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("admin%d did not receive message", i+1)
		}
	}

	select {
	case <-user.send:
		t.Fatal("user client should not receive admin events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, role: enum.RoleAdmin, send: make(chan []byte, 1)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	event := Event{Type: enum.EventOrderPlaced, Payload: json.RawMessage(`{}`)}
	hub.BroadcastToRole(enum.RoleAdmin, event)
	hub.BroadcastToRole(enum.RoleAdmin, event)
	time.Sleep(20 * time.Millisecond)

	if n := hub.Clients(enum.RoleAdmin); n != 0 {
		t.Errorf("slow client still registered (%d clients)", n)
	}
}

func TestServeWS(t *testing.T) {
	const secret = "test-secret"
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, secret, w, r)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	userToken, _ := auth.GenerateToken(secret, uuid.New(), "sara", enum.RoleUser, time.Hour)
	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+userToken, nil)
	if err == nil {
		t.Fatal("user should not be upgraded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user dial: got %v", resp)
	}

	adminToken, _ := auth.GenerateToken(secret, uuid.New(), "ali", enum.RoleAdmin, time.Hour)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+adminToken, nil)
	if err != nil {
		t.Fatalf("admin dial: %v", err)
	}
	defer conn.Close()
	time.Sleep(20 * time.Millisecond)

	hub.BroadcastToRole(enum.RoleAdmin, Event{Type: enum.EventRequestDecided, Payload: json.RawMessage(`{"request_id":7}`)})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var received Event
	if err := conn.ReadJSON(&received); err != nil {
		t.Fatalf("read: %v", err)
	}
	if received.Type != enum.EventRequestDecided {
		t.Errorf("type: got %q", received.Type)
	}
}

func TestServeWS_BurstArrivesAsSeparateEvents(t *testing.T) {
	const secret = "test-secret"
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, secret, w, r)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	token, _ := auth.GenerateToken(secret, uuid.New(), "ali", enum.RoleAdmin, time.Hour)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	time.Sleep(20 * time.Millisecond)

	types := []string{enum.EventOrderPlaced, enum.EventStockUpdated, enum.EventRequestSubmitted}
	for _, typ := range types {
		hub.BroadcastToRole(enum.RoleAdmin, Event{Type: typ, Payload: json.RawMessage(`{}`)})
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	for i, want := range types {
		var got Event
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if got.Type != want {
			t.Errorf("event %d: got %q, want %q", i, got.Type, want)
		}
	}
}
