package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/asterhomes/preference-matching/internal/cache"
	"github.com/asterhomes/preference-matching/internal/domain"
	"github.com/asterhomes/preference-matching/internal/metrics"
)

// handleMatch serves GET /api/v1/preferences/{id}/matches. Pages are cached
// for a short TTL; the cached body is the exact serialized response.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	preferenceID := chi.URLParam(r, "id")
	page, limit := s.parsePageLimit(r)

	key := cache.Key(preferenceID, page, limit)
	if body, ok := s.cache.Get(r.Context(), key); ok {
		metrics.MatchRequests.WithLabelValues("cache_hit").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(body))
		return
	}

	start := time.Now()
	result, err := s.engine.MatchPreference(r.Context(), preferenceID, page, limit)
	if err != nil {
		metrics.ObserveMatch(matchOutcome(err), 0)
		writeDomainError(w, err)
		return
	}
	metrics.ObserveMatch("ok", time.Since(start))

	body, err := json.Marshal(result)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, string(body)); err != nil {
		s.log.Warn().Err(err).Msg("cache match page")
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func matchOutcome(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsValidation(err):
		return "validation_error"
	case domain.IsFetch(err):
		return "fetch_error"
	default:
		return "error"
	}
}

func (s *Server) parsePageLimit(r *http.Request) (int, int) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := s.cfg.API.DefaultPageSize
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > s.cfg.API.MaxPageSize {
		limit = s.cfg.API.MaxPageSize
	}
	return page, limit
}
