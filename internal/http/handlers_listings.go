package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/asterhomes/preference-matching/internal/domain"
	"github.com/asterhomes/preference-matching/internal/storage"
	"github.com/asterhomes/preference-matching/internal/validation"
)

func (s *Server) handleListingsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := s.parseLimitOffset(r)

	q := r.URL.Query()
	filter := storage.ListFilter{
		State:     q.Get("state"),
		BriefType: q.Get("brief_type"),
		Sort:      q.Get("sort"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(q.Get("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(q.Get("max_price"), 64)
	filter.MinBedrooms, _ = strconv.Atoi(q.Get("min_bedrooms"))

	items, total, err := s.store.ListListings(limit, offset, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, listingsListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Items:  items,
	})
}

func (s *Server) handleListingGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, ok, err := s.store.GetListing(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok || l.IsDeleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListingCreate(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "invalid JSON body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		var reqErr *validation.RequestError
		if errors.As(err, &reqErr) {
			writeValidationError(w, reqErr)
			return
		}
		writeDomainError(w, err)
		return
	}

	l, err := req.toDomain(uuid.NewString())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.CreateListing(l); err != nil {
		writeDomainError(w, err)
		return
	}

	s.log.Info().Str("listing_id", l.ID).Str("brief_type", l.BriefType).Msg("listing created")
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListingDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.store.SoftDeleteListing(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) parseLimitOffset(r *http.Request) (int, int) {
	q := r.URL.Query()

	limit := s.cfg.API.DefaultPageSize
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > s.cfg.API.MaxPageSize {
		limit = s.cfg.API.MaxPageSize
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
