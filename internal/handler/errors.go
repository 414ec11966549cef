package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"coursepanel/internal/domain"
	"coursepanel/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Unexpected errors are logged and answered with a generic 500.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		slog.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondNotFound writes a 404 for a missing resource
func respondNotFound(w http.ResponseWriter, resource, id string) {
	httputil.RespondError(w, http.StatusNotFound, resource+" "+id+" not found")
}
