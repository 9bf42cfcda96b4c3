package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
	"github.com/google/uuid"
)

// ErrUnknownItem is returned when an action names an item that is not in the
// menu snapshot.
var ErrUnknownItem = errors.New("item is not on the menu")

// Session is one logged-in user as seen by the gateway. Actions hold the
// session lock for their whole duration, backend calls included, so a
// session's state only ever moves one action at a time.
type Session struct {
	ID  uuid.UUID
	svc *Services

	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// New creates a session for a user who has just logged in through svc.Client.
func New(svc *Services, username string, role enum.Role) *Session {
	return &Session{
		ID:       uuid.New(),
		svc:      svc,
		state:    LoggedIn(username, role),
		lastSeen: time.Now(),
	}
}

// Services returns the components bound to this session.
func (s *Session) Services() *Services { return s.svc }

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) apply(fn func(State) State) State {
	s.state = fn(s.state)
	return s.state
}

// LoadMenu refreshes the catalog and shows the items available to order.
func (s *Session) LoadMenu(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.svc.Catalog.Refresh(ctx); err != nil {
		return s.apply(func(st State) State { return MenuFailed(st, err) })
	}
	items := s.svc.Catalog.Available()
	return s.apply(func(st State) State { return MenuLoaded(st, items) })
}

// AddToCart adds one unit of the item with itemID from the current snapshot.
// A rejected add returns the cart error alongside the unchanged cart.
func (s *Session) AddToCart(itemID int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.svc.Catalog.Lookup(itemID)
	if !ok {
		return s.apply(func(st State) State { return Notice(st, ErrUnknownItem.Error()) }), ErrUnknownItem
	}
	_, err := s.state.Cart.Add(item)
	return s.apply(func(st State) State { return AddToCart(st, item) }), err
}

// SetQuantity changes a cart line's quantity.
func (s *Session) SetQuantity(itemID, qty int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(func(st State) State { return SetQuantity(st, itemID, qty) })
}

// RemoveFromCart drops a cart line.
func (s *Session) RemoveFromCart(itemID int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(func(st State) State { return RemoveFromCart(st, itemID) })
}

// Checkout submits the cart.
func (s *Session) Checkout(ctx context.Context) (State, service.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.svc.Orders.Submit(ctx, s.state.Cart)
	st := s.apply(func(st State) State { return Submitted(st, res) })
	if err == nil {
		items := s.svc.Catalog.Available()
		st = s.apply(func(st State) State { return MenuLoaded(st, items) })
	}
	return st, res, err
}

// RequestAccess sends the user's request for admin access.
func (s *Session) RequestAccess(ctx context.Context, note string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := service.RequestAccess(ctx, s.svc.Client, note)
	return s.apply(func(st State) State { return AccessRequested(st, msg) }), err
}

// LoadDashboard refreshes the given dashboard sections, or all of them.
func (s *Session) LoadDashboard(ctx context.Context, sections ...service.Section) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.svc.Dashboard.Refresh(ctx, sections...)
	return s.apply(func(st State) State { return DashboardLoaded(st, d) })
}

// OpenStockEdit opens the stock edit surface on itemID.
func (s *Session) OpenStockEdit(itemID int) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	edit := s.svc.Stock.Open(itemID)
	return s.apply(func(st State) State { return StockEditChanged(st, edit) })
}

// SaveStock saves value as the stock of itemID.
func (s *Session) SaveStock(ctx context.Context, itemID int, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edit := s.state.Stock
	edit.Open = true
	edit.ItemID = itemID
	edit.Value = value
	edit, msg, err := s.svc.Stock.Save(ctx, edit)

	st := s.apply(func(st State) State { return StockSaved(st, edit, msg) })
	if err == nil {
		d := s.svc.Dashboard.Snapshot()
		st = s.apply(func(st State) State { return DashboardLoaded(st, d) })
	}
	return st, err
}

// Approve approves a pending access request.
func (s *Session) Approve(ctx context.Context, requestID int) (State, error) {
	return s.decide(ctx, requestID, s.svc.Access.Approve)
}

// Reject rejects a pending access request.
func (s *Session) Reject(ctx context.Context, requestID int) (State, error) {
	return s.decide(ctx, requestID, s.svc.Access.Reject)
}

func (s *Session) decide(ctx context.Context, requestID int, fn func(context.Context, int) (string, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := fn(ctx, requestID)
	d := s.svc.Dashboard.Snapshot()
	st := s.apply(func(st State) State { return DashboardLoaded(Decided(st, msg), d) })
	return st, err
}

// Logout ends the backend session and discards all state.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	return s.svc.Client.Logout(ctx)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
