package router

import (
	"log"
	"net/http"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/config"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/handler"
	"github.com/campushub/cafe/internal/metrics"
	mw "github.com/campushub/cafe/internal/middleware"
	"github.com/campushub/cafe/internal/session"
	"github.com/campushub/cafe/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all gateway routes wired up.
// Every login gets its own backend client, observed by upstream.
func New(cfg *config.Config, sessions *session.Store, hub *ws.Hub, upstream *metrics.Upstream) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	newClient := func() *backend.Client {
		return backend.NewClient(cfg.CafeAPIURL, cfg.APITimeout).WithObserver(upstream)
	}
	sessionHandler := handler.NewSessionHandler(sessions, newClient, upstream, cfg.JWTSecret, cfg.SessionTTL)
	sessionHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/admin", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Routes that need a live session
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireSession(sessions))

		sessionHandler.RegisterSessionRoutes(r)

		cartHandler := handler.NewCartHandler(hub)
		cartHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))
			adminHandler := handler.NewAdminHandler(hub)
			adminHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
