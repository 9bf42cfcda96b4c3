package enum

import "fmt"

// ── Group A: State machines (owned by the café backend) ──

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ── Group B: Roles ──

// Role selects which dashboard a logged-in user gets. It is a closed set:
// anything the backend sends outside of it is rejected by ParseRole.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

// ParseRole maps the backend's role string onto Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	}
	return RoleUser, fmt.Errorf("unknown role %q", s)
}

// ── Group C: Admin console tabs ──

type Tab int

const (
	TabDashboard Tab = iota
	TabOrders
	TabUsers
	TabRequests
)

var tabNames = [...]string{"Dashboard", "Orders", "Users", "Admin Requests"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Dashboard"
	}
	return tabNames[t]
}

// Tabs lists admin tabs in display order.
func Tabs() []Tab {
	return []Tab{TabDashboard, TabOrders, TabUsers, TabRequests}
}

// ── Group D: Push events (gateway websocket) ──

const (
	EventOrderPlaced      = "order.placed"
	EventStockUpdated     = "stock.updated"
	EventRequestDecided   = "request.decided"
	EventRequestSubmitted = "request.submitted"
)
