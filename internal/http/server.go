package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/asterhomes/preference-matching/internal/cache"
	"github.com/asterhomes/preference-matching/internal/config"
	"github.com/asterhomes/preference-matching/internal/logging"
	"github.com/asterhomes/preference-matching/internal/matching"
	"github.com/asterhomes/preference-matching/internal/storage"
)

// Server wires the matching engine, the store, and the response cache behind
// the HTTP API.
type Server struct {
	store  *storage.SQLiteStore
	engine *matching.Engine
	cache  cache.MatchCache
	cfg    *config.Config
	log    zerolog.Logger
}

func NewServer(store *storage.SQLiteStore, engine *matching.Engine, matchCache cache.MatchCache, cfg *config.Config) *Server {
	return &Server{
		store:  store,
		engine: engine,
		cache:  matchCache,
		cfg:    cfg,
		log:    logging.With().Str("component", "http").Logger(),
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.Server.RateLimitReqs, s.cfg.Server.RateLimitWindow))

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", s.handleListingsList)
			r.Post("/", s.handleListingCreate)
			r.Get("/{id}", s.handleListingGet)
			r.Delete("/{id}", s.handleListingDelete)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Post("/", s.handlePreferenceCreate)
			r.Get("/{id}", s.handlePreferenceGet)
			r.Get("/{id}/matches", s.handleMatch)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
