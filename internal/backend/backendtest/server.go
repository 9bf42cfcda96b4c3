// Package backendtest provides an in-memory fake of the café backend REST API
// for tests.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campushub/cafe/internal/backend"
	"github.com/shopspring/decimal"
)

const sessionCookie = "session"

type failure struct {
	status  int
	message string
}

// Server fakes the café backend. Fields may be seeded directly before the
// first request; afterwards use the accessor methods.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	Menu      []backend.MenuItem
	Orders    []backend.OrderRecord
	Users     []backend.UserAccount
	Requests  []backend.AdminRequest
	Passwords map[string]string

	failures map[string]failure
	hits     map[string]int
	nextID   int
}

// New starts a fake backend that is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		Passwords: make(map[string]string),
		failures:  make(map[string]failure),
		hits:      make(map[string]int),
		nextID:    1000,
	}

	mux := http.NewServeMux()
	s.handle(mux, "POST /register", s.register)
	s.handle(mux, "POST /login", s.login)
	s.handle(mux, "POST /logout", s.logout)
	s.handle(mux, "GET /menu", s.listMenu)
	s.handle(mux, "POST /menu", s.createMenuItem)
	s.handle(mux, "PUT /menu/{id}", s.updateStock)
	s.handle(mux, "DELETE /menu/{id}", s.deleteMenuItem)
	s.handle(mux, "POST /orders", s.placeOrder)
	s.handle(mux, "GET /orders/admin/summary", s.summary)
	s.handle(mux, "GET /orders/admin", s.listOrders)
	s.handle(mux, "GET /admin/users", s.listUsers)
	s.handle(mux, "GET /admin-requests", s.listRequests)
	s.handle(mux, "POST /admin-requests/approve", s.approve)
	s.handle(mux, "POST /admin-requests/reject", s.reject)
	s.handle(mux, "POST /admin-request", s.submitRequest)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers a user that can log in.
func (s *Server) AddUser(username, password, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Passwords[username] = password
	s.Users = append(s.Users, backend.UserAccount{ID: len(s.Users) + 1, Username: username, Role: role})
}

// Fail makes every call to route ("GET /menu", "PUT /menu/{id}", ...) answer
// with status and, when non-empty, a message body.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Heal removes a failure installed by Fail.
func (s *Server) Heal(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hits returns how many times route was called.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits returns the number of calls across all routes.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Item returns the current state of a menu item.
func (s *Server) Item(id int) (backend.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.Menu {
		if it.ID == id {
			return it, true
		}
	}
	return backend.MenuItem{}, false
}

// RemoveItem deletes a menu item as if another admin had removed it.
func (s *Server) RemoveItem(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.Menu {
		if it.ID == id {
			s.Menu = append(s.Menu[:i], s.Menu[i+1:]...)
			return
		}
	}
}

// Request returns the current state of an access request.
func (s *Server) Request(id int) (backend.AdminRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Requests {
		if r.ID == id {
			return r, true
		}
	}
	return backend.AdminRequest{}, false
}

func (s *Server) handle(mux *http.ServeMux, route string, fn func(w http.ResponseWriter, r *http.Request)) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			if f.message != "" {
				writeJSON(w, f.status, map[string]string{"message": f.message})
			} else {
				w.WriteHeader(f.status)
			}
			return
		}
		fn(w, r)
	})
}

func (s *Server) currentUser(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username and password required"})
		return
	}

	s.mu.Lock()
	_, taken := s.Passwords[body.Username]
	s.mu.Unlock()
	if taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username already taken"})
		return
	}
	s.AddUser(body.Username, body.Password, "user")
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully!"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username and password required"})
		return
	}

	s.mu.Lock()
	pw, ok := s.Passwords[body.Username]
	role := ""
	for _, u := range s.Users {
		if u.Username == body.Username {
			role = u.Role
		}
	}
	s.mu.Unlock()

	if !ok || pw != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: body.Username, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful!",
		"username": body.Username,
		"role":     role,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]backend.MenuItem{}, s.Menu...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var body backend.NewMenuItem
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Name, category, and price required"})
		return
	}
	s.mu.Lock()
	id := 1
	for _, it := range s.Menu {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	s.Menu = append(s.Menu, backend.MenuItem{ID: id, Name: body.Name, Category: body.Category, Price: body.Price, Stock: body.Stock})
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Menu item created"})
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Stock *int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Stock == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Stock value required"})
		return
	}
	s.mu.Lock()
	for i := range s.Menu {
		if s.Menu[i].ID == id {
			s.Menu[i].Stock = *body.Stock
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Stock updated"})
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.RemoveItem(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted"})
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not logged in"})
		return
	}
	var body backend.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Items required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	var parts []string
	index := make(map[int]int, len(s.Menu))
	for i, it := range s.Menu {
		index[it.ID] = i
	}
	for _, line := range body.Items {
		i, ok := index[line.ItemID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Item %d not found", line.ItemID)})
			return
		}
		if s.Menu[i].Stock < line.Quantity {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Not enough stock for item %d", line.ItemID)})
			return
		}
		total = total.Add(s.Menu[i].Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		parts = append(parts, fmt.Sprintf("%dx %s", line.Quantity, s.Menu[i].Name))
	}
	for _, line := range body.Items {
		s.Menu[index[line.ItemID]].Stock -= line.Quantity
	}

	s.nextID++
	s.Orders = append([]backend.OrderRecord{{
		ID:          s.nextID,
		Username:    user,
		Items:       strings.Join(parts, ", "),
		TotalAmount: total,
		CreatedAt:   time.Now().Format("2006-01-02 15:04:05"),
	}}, s.Orders...)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Order placed",
		"order_id":     s.nextID,
		"total_amount": total,
	})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	revenue := decimal.Zero
	for _, o := range s.Orders {
		revenue = revenue.Add(o.TotalAmount)
	}
	resp := backend.Summary{TotalUsers: len(s.Users), TotalOrders: len(s.Orders), TotalRevenue: revenue}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := append([]backend.OrderRecord{}, s.Orders...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := append([]backend.UserAccount{}, s.Users...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reqs := append([]backend.AdminRequest{}, s.Requests...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request, status string) bool {
	var body struct {
		RequestID int `json:"request_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RequestID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "request_id required"})
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Requests {
		if s.Requests[i].ID != body.RequestID {
			continue
		}
		s.Requests[i].Status = status
		if status == "approved" {
			for j := range s.Users {
				if s.Users[j].Username == s.Requests[i].Username {
					s.Users[j].Role = "admin"
				}
			}
		}
		return true
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Request not found"})
	return false
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	if s.decide(w, r, "approved") {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Request approved, user is now admin"})
	}
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	if s.decide(w, r, "rejected") {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Request rejected"})
	}
}

func (s *Server) submitRequest(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not logged in"})
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.Requests {
		if req.Username == user && req.Status == "pending" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Request already pending"})
			return
		}
	}
	s.nextID++
	s.Requests = append([]backend.AdminRequest{{
		ID:        s.nextID,
		Username:  user,
		Note:      body.Note,
		Status:    "pending",
		CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}}, s.Requests...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin request submitted"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
