package service

import (
	"context"
	"fmt"
	"log"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/cart"
	"github.com/shopspring/decimal"
)

// OrderPlacer submits orders. Satisfied by *backend.Client.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req backend.OrderRequest) (*backend.OrderResult, error)
}

// MenuSnapshot is the menu the services validate against and refresh after a
// mutation. Satisfied by *menu.Catalog.
type MenuSnapshot interface {
	Lookup(id int) (backend.MenuItem, bool)
	Refresh(ctx context.Context) ([]backend.MenuItem, error)
}

// SubmitResult is the state after a submission attempt.
type SubmitResult struct {
	Cart    cart.Cart
	OrderID int
	Total   decimal.Decimal
	Message string
}

// OrderSubmitter turns a cart into an order and reconciles local state with
// the backend's answer. The backend alone decides whether stock suffices.
type OrderSubmitter struct {
	placer  OrderPlacer
	catalog MenuSnapshot
}

// NewOrderSubmitter creates a new OrderSubmitter.
func NewOrderSubmitter(placer OrderPlacer, catalog MenuSnapshot) *OrderSubmitter {
	return &OrderSubmitter{placer: placer, catalog: catalog}
}

// Submit places an order for c.
//
// On success the returned cart is empty and the menu snapshot is refreshed so
// displayed stock reflects the deduction. On any failure the returned cart is
// c, untouched, so the user can adjust and retry.
func (s *OrderSubmitter) Submit(ctx context.Context, c cart.Cart) (SubmitResult, error) {
	if c.IsEmpty() {
		return SubmitResult{Cart: c, Message: ErrEmptyCart.Error()}, ErrEmptyCart
	}
	if stale := c.Stale(s.catalog.Lookup); len(stale) > 0 {
		err := &cart.StaleError{Lines: stale}
		return SubmitResult{Cart: c, Message: err.Error()}, err
	}

	res, err := s.placer.PlaceOrder(ctx, backend.OrderRequest{Items: c.OrderLines()})
	if err != nil {
		log.Printf("ERROR: place order: %v", err)
		fail := actionFailed(err, msgOrderFailed)
		return SubmitResult{Cart: c, Message: fail.Message}, fail
	}

	if _, err := s.catalog.Refresh(ctx); err != nil {
		log.Printf("ERROR: refresh menu after order %d: %v", res.OrderID, err)
	}

	return SubmitResult{
		Cart:    cart.Cart{},
		OrderID: res.OrderID,
		Total:   res.TotalAmount,
		Message: fmt.Sprintf("%s%s", msgOrderPlaced, res.TotalAmount.String()),
	}, nil
}
