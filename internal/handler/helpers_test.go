package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/backend/backendtest"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/handler"
	mw "github.com/campushub/cafe/internal/middleware"
	"github.com/campushub/cafe/internal/session"
	"github.com/campushub/cafe/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

// --- Mock broadcaster ---

type mockBroadcaster struct {
	mu     sync.Mutex
	events []ws.Event
}

func (m *mockBroadcaster) BroadcastToRole(role enum.Role, event ws.Event) {
	if role != enum.RoleAdmin {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockBroadcaster) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// --- Gateway fixture ---

type gateway struct {
	backend *backendtest.Server
	store   *session.Store
	events  *mockBroadcaster
	router  chi.Router
}

// newGateway wires the handlers the way the server does, against a fake
// backend with users sara (user) and ali (admin).
func newGateway(t *testing.T) *gateway {
	t.Helper()
	srv := backendtest.New(t)
	srv.Menu = []backend.MenuItem{
		{ID: 1, Name: "Iced Latte", Category: "Coffee", Price: decimal.NewFromInt(350), Stock: 4},
		{ID: 5, Name: "Fries", Category: "Snacks", Price: decimal.NewFromInt(150), Stock: 2},
		{ID: 11, Name: "Brownie", Category: "Dessert", Price: decimal.NewFromInt(200), Stock: 0},
	}
	srv.AddUser("sara", "pw", "user")
	srv.AddUser("ali", "pw", "admin")

	g := &gateway{
		backend: srv,
		store:   session.NewStore(time.Hour),
		events:  &mockBroadcaster{},
	}
	newClient := func() *backend.Client { return backend.NewClient(srv.URL, 5*time.Second) }

	sessions := handler.NewSessionHandler(g.store, newClient, nil, testSecret, time.Hour)
	r := chi.NewRouter()
	sessions.RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(testSecret))
		r.Use(mw.RequireSession(g.store))
		sessions.RegisterSessionRoutes(r)
		handler.NewCartHandler(g.events).RegisterRoutes(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))
			handler.NewAdminHandler(g.events).RegisterRoutes(r)
		})
	})
	g.router = r
	return g
}

func (g *gateway) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	g.router.ServeHTTP(rr, req)
	return rr
}

func (g *gateway) login(t *testing.T, username string) string {
	t.Helper()
	rr := g.do(t, "POST", "/session", "", map[string]string{"username": username, "password": "pw"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, rr.Code, rr.Body.String())
	}
	token, _ := decodeResponse(t, rr)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// object walks nested JSON objects by key.
func object(t *testing.T, v map[string]interface{}, keys ...string) map[string]interface{} {
	t.Helper()
	for _, k := range keys {
		next, ok := v[k].(map[string]interface{})
		if !ok {
			t.Fatalf("missing object %q in %v", k, v)
		}
		v = next
	}
	return v
}
