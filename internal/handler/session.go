package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/campushub/cafe/internal/auth"
	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/middleware"
	"github.com/campushub/cafe/internal/service"
	"github.com/campushub/cafe/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionStore keeps live gateway sessions. Satisfied by *session.Store;
// narrow interface for testability.
type SessionStore interface {
	Add(s *session.Session)
	Remove(id uuid.UUID) (*session.Session, bool)
}

// SessionHandler handles login and logout.
type SessionHandler struct {
	store     SessionStore
	newClient func() *backend.Client
	failures  service.FailureRecorder
	jwtSecret string
	tokenTTL  time.Duration
}

// NewSessionHandler creates a new SessionHandler. newClient must return a
// client with a fresh cookie jar on every call. failures may be nil.
func NewSessionHandler(store SessionStore, newClient func() *backend.Client, failures service.FailureRecorder, jwtSecret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{
		store:     store,
		newClient: newClient,
		failures:  failures,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterRoutes registers the public signup and login endpoints.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/session", h.Login)
}

// RegisterSessionRoutes registers endpoints that need a live session.
func (h *SessionHandler) RegisterSessionRoutes(r chi.Router) {
	r.Get("/session", h.Get)
	r.Delete("/session", h.Logout)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string        `json:"token"`
	Session stateResponse `json:"session"`
}

// --- Handlers ---

// Register creates a plain user account on the backend. It does not log in.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	msg, err := h.newClient().Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": backend.MessageOr(err, "registration failed")})
			return
		}
		log.Printf("ERROR: register %s: %v", req.Username, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "cafe api unavailable"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": msg})
}

// Login authenticates against the café backend and opens a gateway session.
// Users get their menu loaded, admins the full dashboard.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	client := h.newClient()
	res, err := client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": backend.MessageOr(err, "invalid credentials")})
			return
		}
		log.Printf("ERROR: login %s: %v", req.Username, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "cafe api unavailable"})
		return
	}

	role, err := enum.ParseRole(res.Role)
	if err != nil {
		log.Printf("ERROR: login %s: %v", req.Username, err)
		h.endBackendSession(client)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "unsupported role"})
		return
	}

	sess := session.New(session.NewServices(client, h.failures), res.Username, role)
	var st session.State
	if role == enum.RoleAdmin {
		st = sess.LoadDashboard(r.Context())
	} else {
		st = sess.LoadMenu(r.Context())
	}

	token, err := auth.GenerateToken(h.jwtSecret, sess.ID, res.Username, role, h.tokenTTL)
	if err != nil {
		h.endBackendSession(client)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	h.store.Add(sess)

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Session: toStateResponse(st)})
}

// Get returns the session's current state without contacting the backend.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateResponse(sess.State()))
}

// Logout discards the session, cart included, and ends the backend login.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	h.store.Remove(sess.ID)
	if err := sess.Logout(r.Context()); err != nil {
		log.Printf("ERROR: backend logout: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *SessionHandler) endBackendSession(client *backend.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Logout(ctx); err != nil {
		log.Printf("ERROR: backend logout: %v", err)
	}
}
