package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// CartHandler handles the user view: menu, cart, checkout and access requests.
type CartHandler struct {
	events Broadcaster
}

// NewCartHandler creates a new CartHandler. events may be nil.
func NewCartHandler(events Broadcaster) *CartHandler {
	return &CartHandler{events: events}
}

// RegisterRoutes registers user view endpoints. Expected to be mounted behind
// session authentication.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/cart", h.Cart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{id}", h.UpdateItem)
	r.Delete("/cart/items/{id}", h.RemoveItem)
	r.Post("/cart/checkout", h.Checkout)
	r.Post("/access-requests", h.RequestAccess)
}

// --- Request / Response types ---

type addItemRequest struct {
	ItemID int `json:"item_id"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type accessRequestBody struct {
	Note string `json:"note"`
}

type orderPlacedEvent struct {
	OrderID  int             `json:"order_id"`
	Username string          `json:"username"`
	Total    decimal.Decimal `json:"total"`
}

type requestSubmittedEvent struct {
	Username string `json:"username"`
	Note     string `json:"note,omitempty"`
}

// --- Handlers ---

// Menu refreshes and returns the items available to order.
func (h *CartHandler) Menu(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	st := sess.LoadMenu(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(st))
}

// Cart returns the current cart.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.State()))
}

// AddItem adds one unit of an item.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	st, err := sess.AddToCart(req.ItemID)
	writeState(w, st, err)
}

// UpdateItem sets a line's quantity. Out of range quantities are clamped.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.SetQuantity(id, req.Quantity)))
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.RemoveFromCart(id)))
}

// Checkout submits the cart as an order.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	st, res, err := sess.Checkout(r.Context())
	if err == nil {
		publish(h.events, enum.EventOrderPlaced, orderPlacedEvent{
			OrderID:  res.OrderID,
			Username: st.Username,
			Total:    res.Total,
		})
	}
	writeState(w, st, err)
}

// RequestAccess asks the admins for admin access.
func (h *CartHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	st, err := sess.RequestAccess(r.Context(), req.Note)
	if err != nil {
		writeJSON(w, actionStatus(err), errorResponse{Error: st.RequestMessage, Session: toStateResponse(st)})
		return
	}
	publish(h.events, enum.EventRequestSubmitted, requestSubmittedEvent{Username: st.Username, Note: req.Note})
	writeJSON(w, http.StatusOK, toStateResponse(st))
}
