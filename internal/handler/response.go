package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/cart"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
	"github.com/campushub/cafe/internal/session"
	"github.com/campushub/cafe/internal/ws"
	"github.com/go-chi/chi/v5"
)

// Broadcaster pushes events to connected consoles. Satisfied by *ws.Hub;
// narrow interface for testability.
type Broadcaster interface {
	BroadcastToRole(role enum.Role, event ws.Event)
}

// --- Response types ---

type menuItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
}

type cartLineResponse struct {
	ItemID      int    `json:"item_id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	Subtotal    string `json:"subtotal"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

type dashboardResponse struct {
	service.Dashboard
	Actions map[int][]service.Action `json:"actions"`
}

type stateResponse struct {
	Username       string             `json:"username"`
	Role           string             `json:"role"`
	Menu           []menuItemResponse `json:"menu"`
	Cart           cartResponse       `json:"cart"`
	Message        string             `json:"message,omitempty"`
	RequestMessage string             `json:"request_message,omitempty"`
	StockEdit      *service.StockEdit `json:"stock_edit,omitempty"`
	Dashboard      *dashboardResponse `json:"dashboard,omitempty"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Session stateResponse `json:"session"`
}

func toMenuItemResponse(it backend.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:       it.ID,
		Name:     it.Name,
		Category: it.Category,
		Price:    it.Price.StringFixed(2),
		Stock:    it.Stock,
	}
}

func toCartResponse(c cart.Cart) cartResponse {
	resp := cartResponse{Lines: []cartLineResponse{}, Total: c.Total().StringFixed(2)}
	for _, l := range c.Lines() {
		resp.Lines = append(resp.Lines, cartLineResponse{
			ItemID:      l.ItemID,
			Name:        l.Name,
			Price:       l.Price.StringFixed(2),
			Quantity:    l.Quantity,
			MaxQuantity: l.StockAtAdd,
			Subtotal:    l.Subtotal().StringFixed(2),
		})
	}
	return resp
}

func toStateResponse(st session.State) stateResponse {
	resp := stateResponse{
		Username:       st.Username,
		Role:           st.RoleName,
		Menu:           []menuItemResponse{},
		Cart:           toCartResponse(st.Cart),
		Message:        st.Message,
		RequestMessage: st.RequestMessage,
	}
	for _, it := range st.Menu {
		resp.Menu = append(resp.Menu, toMenuItemResponse(it))
	}

	if st.IsAdmin() {
		edit := st.Stock
		resp.StockEdit = &edit
		d := &dashboardResponse{Dashboard: st.Dashboard, Actions: make(map[int][]service.Action)}
		for _, req := range st.Dashboard.Requests {
			if actions := service.Actions(req); len(actions) > 0 {
				d.Actions[req.ID] = actions
			}
		}
		resp.Dashboard = d
	}
	return resp
}

// --- Helpers ---

// actionStatus maps an action failure onto an HTTP status.
func actionStatus(err error) int {
	var stale *cart.StaleError
	var stock *cart.StockError
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrOutOfStock), errors.As(err, &stock), errors.Is(err, service.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrNoItemSelected), errors.As(err, &stale):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return apiErr.Status
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusBadGateway
}

func writeState(w http.ResponseWriter, st session.State, err error) {
	if err != nil {
		msg := st.Message
		if msg == "" {
			msg = err.Error()
		}
		writeJSON(w, actionStatus(err), errorResponse{Error: msg, Session: toStateResponse(st)})
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(st))
}

func publish(b Broadcaster, eventType string, payload interface{}) {
	if b == nil {
		return
	}
	event, err := ws.NewEvent(eventType, payload)
	if err != nil {
		log.Printf("ERROR: build %s event: %v", eventType, err)
		return
	}
	b.BroadcastToRole(enum.RoleAdmin, event)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
