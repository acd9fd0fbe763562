// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/models"
)

// writeDomainError maps the domain error taxonomy onto HTTP responses.
// The four expected errors carry a specific message back to the
// initiating user; anything else is a store-side failure surfaced as a
// generic try-again state, never swallowed.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCode):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Wrong access code")
	case errors.Is(err, models.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted this round")
	case errors.Is(err, models.ErrSessionLocked):
		middleware.ErrorResponse(w, http.StatusConflict, "The session does not allow this right now")
	case errors.Is(err, models.ErrIllegalTransition):
		middleware.ErrorResponse(w, http.StatusConflict, "Invalid session phase change")
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Temporary problem, please try again")
	}
}
