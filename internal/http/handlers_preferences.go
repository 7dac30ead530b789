package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/asterhomes/preference-matching/internal/matching"
	"github.com/asterhomes/preference-matching/internal/validation"
)

func (s *Server) handlePreferenceCreate(w http.ResponseWriter, r *http.Request) {
	var req createPreferenceRequest
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

	pref, err := req.toDomain(uuid.NewString())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Mode/detail-bag coherence is enforced at submission so matching never
	// sees an incoherent record.
	if _, err := matching.Normalize(pref); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.CreatePreference(pref); err != nil {
		writeDomainError(w, err)
		return
	}

	s.log.Info().Str("preference_id", pref.ID).Str("mode", string(pref.Mode)).Msg("preference created")
	writeJSON(w, http.StatusCreated, pref)
}

func (s *Server) handlePreferenceGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pref, err := s.store.GetPreference(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}
