package backend

import "github.com/shopspring/decimal"

// MenuItem is one sellable item as served by GET /menu.
type MenuItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// NewMenuItem is the body of POST /menu.
type NewMenuItem struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// OrderLine is a single entry of an order request. Pricing is left to the
// backend, so only the item and quantity travel.
type OrderLine struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Items []OrderLine `json:"items"`
}

// OrderResult is the backend's answer to a placed order.
type OrderResult struct {
	OrderID     int             `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Message     string          `json:"message"`
}

// OrderRecord is an order row in the admin order list. Items is already
// rendered by the backend ("2x Fries, 1x Brownie").
type OrderRecord struct {
	ID          int             `json:"id"`
	Username    string          `json:"username"`
	Items       string          `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
}

// AdminRequest is a request for elevated access.
type AdminRequest struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Summary holds the backend-derived dashboard totals.
type Summary struct {
	TotalUsers   int             `json:"total_users"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// UserAccount is a row of GET /admin/users.
type UserAccount struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult is the backend's answer to POST /login.
type LoginResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type stockUpdate struct {
	Stock int `json:"stock"`
}

type requestDecision struct {
	RequestID int `json:"request_id"`
}

type accessRequest struct {
	Note string `json:"note"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
