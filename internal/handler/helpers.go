package handler

import (
	"errors"
	"net/http"

	"prospekt/internal/domain"
	"prospekt/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var busyErr *domain.BusyError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &busyErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, busyErr.Error(), map[string]interface{}{
			"brochure_id": busyErr.BrochureID,
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
