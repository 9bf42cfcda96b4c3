package handler_test

import (
	"net/http"
	"testing"
)

func TestLogin_User(t *testing.T) {
	g := newGateway(t)

	rr := g.do(t, "POST", "/session", "", map[string]string{"username": "sara", "password": "pw"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	sess := object(t, resp, "session")
	if sess["role"] != "user" || sess["username"] != "sara" {
		t.Errorf("session: got %v", sess)
	}
	if menu, _ := sess["menu"].([]interface{}); len(menu) != 2 {
		t.Errorf("menu: got %d items, want 2 available", len(menu))
	}
	if _, ok := sess["dashboard"]; ok {
		t.Error("user session should carry no dashboard")
	}
	if g.store.Len() != 1 {
		t.Errorf("sessions: got %d, want 1", g.store.Len())
	}
}

func TestLogin_AdminLoadsDashboard(t *testing.T) {
	g := newGateway(t)

	rr := g.do(t, "POST", "/session", "", map[string]string{"username": "ali", "password": "pw"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	dash := object(t, decodeResponse(t, rr), "session", "dashboard")
	if dash["total_items"] != float64(3) || dash["total_stock"] != float64(6) {
		t.Errorf("totals: got items=%v stock=%v", dash["total_items"], dash["total_stock"])
	}
	if g.backend.Hits("GET /admin-requests") != 1 {
		t.Errorf("requests fetched %d times, want 1", g.backend.Hits("GET /admin-requests"))
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	g := newGateway(t)

	rr := g.do(t, "POST", "/session", "", map[string]string{"username": "sara", "password": "nope"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := decodeResponse(t, rr)["error"]; got != "Invalid username or password" {
		t.Errorf("error: got %v", got)
	}
	if g.store.Len() != 0 {
		t.Error("session created for failed login")
	}
}

func TestLogin_UnknownRoleRejected(t *testing.T) {
	g := newGateway(t)
	g.backend.AddUser("root", "pw", "superuser")

	rr := g.do(t, "POST", "/session", "", map[string]string{"username": "root", "password": "pw"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if g.store.Len() != 0 {
		t.Error("session created for unknown role")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	g := newGateway(t)

	rr := g.do(t, "POST", "/session", "", map[string]string{"username": "sara"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestLogout_DiscardsSession(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "sara")
	g.do(t, "POST", "/cart/items", token, map[string]int{"item_id": 1})

	if rr := g.do(t, "DELETE", "/session", token, nil); rr.Code != http.StatusOK {
		t.Fatalf("logout status: got %d", rr.Code)
	}
	if g.backend.Hits("POST /logout") != 1 {
		t.Error("backend logout not called")
	}

	// the token is still signed but its session is gone
	if rr := g.do(t, "GET", "/cart", token, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRegister(t *testing.T) {
	g := newGateway(t)

	rr := g.do(t, "POST", "/register", "", map[string]string{"username": "bilal", "password": "pw"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
	if g.store.Len() != 0 {
		t.Error("register should not open a session")
	}

	rr = g.do(t, "POST", "/register", "", map[string]string{"username": "bilal", "password": "pw"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeResponse(t, rr)["error"]; got != "Username already taken" {
		t.Errorf("error: got %v", got)
	}

	g.login(t, "bilal")
}
