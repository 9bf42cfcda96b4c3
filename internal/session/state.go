// Package session holds everything one logged-in user works with: the UI
// state container and the services bound to that user's backend session.
package session

import (
	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/cart"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
)

// State is the UI state of one session. It is a plain value; the functions
// below are the only transitions and none of them perform I/O.
type State struct {
	Username string    `json:"username"`
	Role     enum.Role `json:"-"`
	RoleName string    `json:"role"`

	// user view
	Menu           []backend.MenuItem `json:"menu,omitempty"`
	Cart           cart.Cart          `json:"-"`
	Message        string             `json:"message,omitempty"`
	RequestMessage string             `json:"request_message,omitempty"`

	// admin view
	Tab       enum.Tab          `json:"-"`
	Stock     service.StockEdit `json:"stock_edit"`
	Dashboard service.Dashboard `json:"-"`
}

// LoggedIn starts a fresh state for username.
func LoggedIn(username string, role enum.Role) State {
	return State{Username: username, Role: role, RoleName: role.String(), Tab: enum.TabDashboard}
}

// IsAdmin reports whether the admin view applies.
func (s State) IsAdmin() bool { return s.Role == enum.RoleAdmin }

// MenuLoaded replaces the displayed menu.
func MenuLoaded(s State, items []backend.MenuItem) State {
	s.Menu = items
	return s
}

// MenuFailed keeps the displayed menu and shows why it could not refresh.
func MenuFailed(s State, err error) State {
	s.Message = backend.MessageOr(err, "error loading menu")
	return s
}

// AddToCart adds one unit of item. A rejected add leaves the cart as it was
// and explains why.
func AddToCart(s State, item backend.MenuItem) State {
	next, err := s.Cart.Add(item)
	if err != nil {
		s.Message = err.Error()
		return s
	}
	s.Cart = next
	s.Message = ""
	return s
}

// SetQuantity changes a cart line's quantity within its stock bounds.
func SetQuantity(s State, itemID, qty int) State {
	s.Cart = s.Cart.SetQuantity(itemID, qty)
	return s
}

// RemoveFromCart drops a cart line.
func RemoveFromCart(s State, itemID int) State {
	s.Cart = s.Cart.Remove(itemID)
	return s
}

// Submitted applies the outcome of an order submission.
func Submitted(s State, res service.SubmitResult) State {
	s.Cart = res.Cart
	s.Message = res.Message
	return s
}

// AccessRequested records the answer to a user's admin access request.
func AccessRequested(s State, msg string) State {
	s.RequestMessage = msg
	return s
}

// SelectTab switches the admin tab. Users have no tabs.
func SelectTab(s State, tab enum.Tab) State {
	if !s.IsAdmin() {
		return s
	}
	s.Tab = tab
	return s
}

// DashboardLoaded replaces the admin dashboard data.
func DashboardLoaded(s State, d service.Dashboard) State {
	s.Dashboard = d
	return s
}

// StockEditChanged replaces the stock edit surface state.
func StockEditChanged(s State, edit service.StockEdit) State {
	s.Stock = edit
	if edit.Open {
		s.Message = ""
	}
	return s
}

// StockSaved applies the outcome of a stock save.
func StockSaved(s State, edit service.StockEdit, msg string) State {
	s.Stock = edit
	s.Message = msg
	return s
}

// CloseStockEdit dismisses the edit surface without saving.
func CloseStockEdit(s State) State {
	s.Stock.Open = false
	return s
}

// Decided applies the message from an approve/reject action.
func Decided(s State, msg string) State {
	s.Message = msg
	return s
}

// Notice shows a message without touching anything else.
func Notice(s State, msg string) State {
	s.Message = msg
	return s
}
