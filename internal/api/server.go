// Package api exposes the services over HTTP with a chi router.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/metrics"
	"github.com/chrisdamba/comanda/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	svc     *services.Services
	ping    func(ctx context.Context) error
	log     *logger.Logger
	metrics *metrics.ServerMetrics
}

// NewServer wires the handlers. ping backs /health and metrics may be nil.
func NewServer(svc *services.Services, ping func(ctx context.Context) error, log *logger.Logger, m *metrics.ServerMetrics) *Server {
	return &Server{svc: svc, ping: ping, log: log, metrics: m}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/dishes", s.dishRoutes)
	r.Route("/orders", s.orderRoutes)
	r.Route("/kitchen/orders", s.kitchenRoutes)
	r.Route("/payments", s.paymentRoutes)
	s.diagnosticRoutes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			logger.FromContext(ctx, s.log).Warn("health", "database ping failed", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN", "database": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
