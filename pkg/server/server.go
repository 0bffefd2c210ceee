// Package server exposes the catalog as JSON over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/lrstanley/chix"

	"tableflip.dev/pokedex/pkg/app"
)

// Server wires the routes to a Service.
type Server struct {
	Service *app.Service
	Logger  log.Interface
	Addr    string
	Debug   bool
	// RequestsPerMinute limits each client IP. Zero disables limiting.
	RequestsPerMinute int
}

// Router builds the chi router with middleware and routes mounted.
func (s *Server) Router() http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = log.Log
	}

	r := chi.NewRouter()
	r.Use(
		chix.UseContextIP,
		middleware.RequestID,
		chix.UseStructuredLogger(logger),
		chix.UseDebug(s.Debug),
		chix.UseRecoverer,
		middleware.StripSlashes,
	)
	if s.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(s.RequestsPerMinute, time.Minute))
	}

	r.Route("/api", NewHandler(s.Service).Route)
	return r
}

func (s *Server) httpServer(ctx context.Context) *http.Server {
	return &http.Server{
		Addr:    s.Addr,
		Handler: s.Router(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		// Detail pages fan out to upstream; leave room for slow pages.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return chix.RunContext(ctx, s.httpServer(ctx))
}
