package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Observer is told about every call made to the backend. metrics.Upstream
// satisfies it.
type Observer interface {
	ObserveCall(op string, elapsed time.Duration, err error)
}

// Client talks to the café backend REST API. The backend keeps logins in a
// cookie session, so every Client owns its own cookie jar and must not be
// shared between logged-in users.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// NewClient creates a Client with a fresh cookie jar.
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// WithObserver attaches an Observer and returns the client.
func (c *Client) WithObserver(o Observer) *Client {
	c.observer = o
	return c
}

// Login authenticates against POST /login and keeps the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/login", credentials{username, password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates a user account and returns the backend message. The
// backend always registers plain users; admin access goes through requests.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var res messageResponse
	err := c.do(ctx, "register", http.MethodPost, "/register", credentials{username, password}, &res)
	return res.Message, err
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}

// ListMenu returns every menu item, including those out of stock.
func (c *Client) ListMenu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.do(ctx, "list menu", http.MethodGet, "/menu", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateMenuItem adds an item to the menu.
func (c *Client) CreateMenuItem(ctx context.Context, item NewMenuItem) error {
	return c.do(ctx, "create menu item", http.MethodPost, "/menu", item, nil)
}

// DeleteMenuItem removes an item from the menu.
func (c *Client) DeleteMenuItem(ctx context.Context, itemID int) error {
	path := fmt.Sprintf("/menu/%d", itemID)
	return c.do(ctx, "delete menu item", http.MethodDelete, path, nil, nil)
}

// UpdateStock overwrites the stock count of one item.
func (c *Client) UpdateStock(ctx context.Context, itemID, stock int) error {
	path := fmt.Sprintf("/menu/%d", itemID)
	return c.do(ctx, "update stock", http.MethodPut, path, stockUpdate{Stock: stock}, nil)
}

// PlaceOrder submits an order. The backend prices it and checks stock.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	var res OrderResult
	if err := c.do(ctx, "place order", http.MethodPost, "/orders", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetSummary returns the admin dashboard totals.
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, "get summary", http.MethodGet, "/orders/admin/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListOrders returns every order, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]OrderRecord, error) {
	var orders []OrderRecord
	if err := c.do(ctx, "list orders", http.MethodGet, "/orders/admin", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]UserAccount, error) {
	var users []UserAccount
	if err := c.do(ctx, "list users", http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAdminRequests returns all access requests, newest first.
func (c *Client) ListAdminRequests(ctx context.Context) ([]AdminRequest, error) {
	var reqs []AdminRequest
	if err := c.do(ctx, "list admin requests", http.MethodGet, "/admin-requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ApproveRequest approves an access request and returns the backend message.
func (c *Client) ApproveRequest(ctx context.Context, requestID int) (string, error) {
	var res messageResponse
	err := c.do(ctx, "approve request", http.MethodPost, "/admin-requests/approve", requestDecision{requestID}, &res)
	return res.Message, err
}

// RejectRequest rejects an access request and returns the backend message.
func (c *Client) RejectRequest(ctx context.Context, requestID int) (string, error) {
	var res messageResponse
	err := c.do(ctx, "reject request", http.MethodPost, "/admin-requests/reject", requestDecision{requestID}, &res)
	return res.Message, err
}

// SubmitAdminRequest asks for admin access on behalf of the logged-in user.
func (c *Client) SubmitAdminRequest(ctx context.Context, note string) (string, error) {
	var res messageResponse
	err := c.do(ctx, "submit admin request", http.MethodPost, "/admin-request", accessRequest{note}, &res)
	return res.Message, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) (err error) {
	if c.observer != nil {
		start := time.Now()
		defer func() { c.observer.ObserveCall(op, time.Since(start), err) }()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: call cafe api: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
