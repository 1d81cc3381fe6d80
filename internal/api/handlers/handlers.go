// Package handlers contains the HTTP-facing layer: it decodes requests,
// calls the domain services, and shapes responses. Domain errors are
// translated to problem+json here and nowhere else.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/authz"
	"github.com/gatherly/server/internal/domain/attendees"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/users"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// writeDomainError maps domain errors onto problem responses. The
// validation branch carries the per-field messages into the body.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var verr *events.ValidationError
	switch {
	case errors.As(err, &verr):
		problem.Write(w, r, http.StatusUnprocessableEntity, problem.TypeValidation, "The given data was invalid.", err, env,
			problem.WithDetail(verr.Error()),
			problem.WithFieldErrors(verr.Fields))
	case errors.Is(err, authz.ErrUnauthenticated):
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthenticated", err, env)
	case errors.Is(err, authz.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", err, env,
			problem.WithDetail("This action is unauthorized."))
	case errors.Is(err, events.ErrNotFound), errors.Is(err, attendees.ErrNotFound), errors.Is(err, users.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, env string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env,
			problem.WithDetail("The request body is not valid JSON."))
		return false
	}
	return true
}
