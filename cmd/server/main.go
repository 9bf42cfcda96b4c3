package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/campushub/cafe/internal/config"
	"github.com/campushub/cafe/internal/metrics"
	"github.com/campushub/cafe/internal/router"
	"github.com/campushub/cafe/internal/session"
	"github.com/campushub/cafe/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	upstream := metrics.NewUpstream(prometheus.DefaultRegisterer)

	hub := ws.NewHub()
	go hub.Run()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(context.Background())

	r := router.New(cfg, sessions, hub, upstream)

	log.Printf("Starting gateway on :%s (cafe api %s)", cfg.Port, cfg.CafeAPIURL)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
