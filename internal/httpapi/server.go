package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/uptimemon/internal/httpapi/middleware"
	"github.com/hamed0406/uptimemon/internal/metrics"
	"github.com/hamed0406/uptimemon/internal/repo"
)

// Server is the management API: account, token and check CRUD over the
// same record store the monitoring engine sweeps. The engine never goes
// through this layer; it owns only the state/last_checked fields while
// this API owns the rest of the record lifecycle.
type Server struct {
	Logger    *zap.Logger
	Store     repo.RecordStore
	Metrics   *metrics.Collector
	MaxChecks int
}

func NewServer(l *zap.Logger, store repo.RecordStore, mc *metrics.Collector, maxChecks int) *Server {
	if maxChecks < 1 {
		maxChecks = 5
	}
	return &Server{Logger: l, Store: store, Metrics: mc, MaxChecks: maxChecks}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(300, 100))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", s.handleAccountCreate)
		r.Get("/accounts", s.handleAccountGet)
		r.Put("/accounts", s.handleAccountUpdate)
		r.Delete("/accounts", s.handleAccountDelete)

		r.Post("/tokens", s.handleTokenCreate)
		r.Get("/tokens", s.handleTokenGet)
		r.Put("/tokens", s.handleTokenExtend)
		r.Delete("/tokens", s.handleTokenDelete)

		r.Post("/checks", s.handleCheckCreate)
		r.Get("/checks", s.handleCheckGet)
		r.Put("/checks", s.handleCheckUpdate)
		r.Delete("/checks", s.handleCheckDelete)
	})

	return r
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondErr(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
