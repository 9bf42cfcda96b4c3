package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/middleware"
	"github.com/campushub/cafe/internal/service"
	"github.com/campushub/cafe/internal/session"
	"github.com/go-chi/chi/v5"
)

// AdminHandler handles the admin dashboard, stock edits and access request
// decisions.
type AdminHandler struct {
	events Broadcaster
}

// NewAdminHandler creates a new AdminHandler. events may be nil.
func NewAdminHandler(events Broadcaster) *AdminHandler {
	return &AdminHandler{events: events}
}

// RegisterRoutes registers admin endpoints. Expected to be mounted at /admin
// behind session authentication and the admin role check.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Post("/dashboard/refresh", h.Refresh)
	r.Post("/menu/{id}/stock-edit", h.OpenStockEdit)
	r.Put("/menu/{id}/stock", h.SaveStock)
	r.Post("/requests/{id}/approve", h.Approve)
	r.Post("/requests/{id}/reject", h.Reject)
}

// --- Request / Response types ---

type refreshRequest struct {
	Sections []string `json:"sections"`
}

type stockRequest struct {
	Stock json.RawMessage `json:"stock"`
}

type stockUpdatedEvent struct {
	ItemID int `json:"item_id"`
	Stock  int `json:"stock"`
}

type decision func(*session.Session, context.Context, int) (session.State, error)

type requestDecidedEvent struct {
	RequestID int    `json:"request_id"`
	Status    string `json:"status"`
}

// --- Handlers ---

// Dashboard returns the dashboard as last loaded.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.State()))
}

// Refresh reloads the requested sections, or all of them for an empty body.
// Failed sections are reported in the dashboard's errors, not as a failed
// request.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sections, ok := parseSections(req.Sections)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown dashboard section"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.LoadDashboard(r.Context(), sections...)))
}

// OpenStockEdit opens the stock edit surface prefilled with the item's stock.
func (h *AdminHandler) OpenStockEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.OpenStockEdit(id)))
}

// SaveStock overwrites an item's stock. The value is free-form: anything
// that is not a non-negative number is saved as 0.
func (h *AdminHandler) SaveStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	value := stockValue(req.Stock)

	sess := middleware.SessionFromContext(r.Context())
	st, err := sess.SaveStock(r.Context(), id, value)
	if err == nil {
		publish(h.events, enum.EventStockUpdated, stockUpdatedEvent{ItemID: id, Stock: service.CoerceStock(value)})
	}
	writeState(w, st, err)
}

// Approve approves a pending access request.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, enum.RequestStatusApproved, (*session.Session).Approve)
}

// Reject rejects a pending access request.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, enum.RequestStatusRejected, (*session.Session).Reject)
}

func (h *AdminHandler) decide(w http.ResponseWriter, r *http.Request, status string, fn decision) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request id"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	st, err := fn(sess, r.Context(), id)
	if err == nil {
		publish(h.events, enum.EventRequestDecided, requestDecidedEvent{RequestID: id, Status: status})
	}
	writeState(w, st, err)
}

// --- Helpers ---

func parseSections(names []string) ([]service.Section, bool) {
	known := make(map[string]service.Section)
	for _, s := range service.AllSections() {
		known[string(s)] = s
	}

	var sections []service.Section
	for _, name := range names {
		s, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, false
		}
		sections = append(sections, s)
	}
	return sections, true
}

// stockValue accepts the stock as a JSON string or number.
func stockValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
