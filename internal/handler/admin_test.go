package handler_test

import (
	"net/http"
	"testing"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/enum"
)

func TestRefresh_PartialFailure(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "ali")
	g.backend.Fail("GET /orders/admin/summary", http.StatusInternalServerError, "")

	rr := g.do(t, "POST", "/admin/dashboard/refresh", token, map[string][]string{"sections": {"summary", "users"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	dash := object(t, decodeResponse(t, rr), "dashboard")
	errs, _ := dash["errors"].(map[string]interface{})
	if _, ok := errs["summary"]; !ok {
		t.Errorf("summary failure not reported: %v", dash["errors"])
	}
	if users, _ := dash["users"].([]interface{}); len(users) != 2 {
		t.Errorf("users: got %d, want 2", len(users))
	}
}

func TestRefresh_UnknownSection(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "ali")

	rr := g.do(t, "POST", "/admin/dashboard/refresh", token, map[string][]string{"sections": {"kitchen"}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSaveStock(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "ali")

	rr := g.do(t, "POST", "/admin/menu/11/stock-edit", token, nil)
	edit := object(t, decodeResponse(t, rr), "stock_edit")
	if edit["value"] != "0" || edit["open"] != true {
		t.Errorf("prefill: got %v", edit)
	}

	rr = g.do(t, "PUT", "/admin/menu/11/stock", token, map[string]string{"stock": "12"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
	if item, _ := g.backend.Item(11); item.Stock != 12 {
		t.Errorf("backend stock: got %d, want 12", item.Stock)
	}
	if got := g.events.types(); len(got) != 1 || got[0] != enum.EventStockUpdated {
		t.Errorf("events: got %v", got)
	}
}

func TestSaveStock_CoercesInput(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "ali")

	tests := []struct {
		name  string
		stock interface{}
		want  int
	}{
		{"number", 7, 7},
		{"fraction", "3.9", 3},
		{"negative", -4, 0},
		{"garbage", "lots", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := g.do(t, "PUT", "/admin/menu/1/stock", token, map[string]interface{}{"stock": tc.stock})
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			if item, _ := g.backend.Item(1); item.Stock != tc.want {
				t.Errorf("stock: got %d, want %d", item.Stock, tc.want)
			}
		})
	}
}

func TestSaveStock_BackendFailure(t *testing.T) {
	g := newGateway(t)
	token := g.login(t, "ali")
	g.backend.Fail("PUT /menu/{id}", http.StatusInternalServerError, "")

	rr := g.do(t, "PUT", "/admin/menu/5/stock", token, map[string]string{"stock": "9"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != "error updating stock" {
		t.Errorf("error: got %v", resp["error"])
	}
	if edit := object(t, resp, "session", "stock_edit"); edit["open"] != true {
		t.Error("edit surface should stay open")
	}
}

func TestApprove(t *testing.T) {
	g := newGateway(t)
	g.backend.Requests = []backend.AdminRequest{
		{ID: 7, Username: "sara", Status: enum.RequestStatusPending, CreatedAt: "2026-03-01 09:00:00"},
		{ID: 8, Username: "omar", Status: enum.RequestStatusRejected, CreatedAt: "2026-02-27 12:30:00"},
	}
	token := g.login(t, "ali")

	dash := object(t, decodeResponse(t, g.do(t, "GET", "/admin/dashboard", token, nil)), "dashboard")
	actions := dash["actions"].(map[string]interface{})
	if _, ok := actions["7"]; !ok || len(actions) != 1 {
		t.Errorf("actions: got %v, want controls for request 7 only", actions)
	}

	rr := g.do(t, "POST", "/admin/requests/7/approve", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
	if req, _ := g.backend.Request(7); req.Status != enum.RequestStatusApproved {
		t.Errorf("backend status: got %q", req.Status)
	}
	if got := g.events.types(); len(got) != 1 || got[0] != enum.EventRequestDecided {
		t.Errorf("events: got %v", got)
	}

	// a decided request cannot be decided again
	rr = g.do(t, "POST", "/admin/requests/7/reject", token, nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("second decision: got %d, want %d", rr.Code, http.StatusConflict)
	}
}
