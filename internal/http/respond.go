package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/asterhomes/preference-matching/internal/domain"
	"github.com/asterhomes/preference-matching/internal/logging"
	"github.com/asterhomes/preference-matching/internal/validation"
)

// errorBody is the envelope for every non-2xx response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeValidationError(w http.ResponseWriter, err *validation.RequestError) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "VALIDATION_ERROR",
		Message: "request validation failed",
		Fields:  err.Fields,
	}})
}

// writeDomainError maps the matching error taxonomy onto transport codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_PREFERENCE", err.Error())
	case domain.IsFetch(err):
		writeError(w, http.StatusBadGateway, "LISTING_STORE_UNAVAILABLE", "listing store unavailable, retry later")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusGatewayTimeout, "TIMEOUT", "request timed out")
	default:
		logging.Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
