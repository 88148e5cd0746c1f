// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and translate the outcome into a JSON
// envelope; business rules live in app/services.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// respondError maps typed service errors onto HTTP statuses. Unrecognised
// errors become 500s with the detail kept out of the response body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr     *services.ValidationError
		stockErr *services.InsufficientStockError
		transErr *services.InvalidTransitionError
	)

	switch {
	case errors.As(err, &vErr):
		if len(vErr.Fields) > 0 {
			response.ValidationError(w, vErr.Fields)
			return
		}
		response.Error(w, http.StatusUnprocessableEntity, vErr.Message)

	case errors.As(err, &stockErr):
		response.Conflict(w, stockErr.Error())

	case errors.As(err, &transErr):
		response.Error(w, http.StatusUnprocessableEntity, transErr.Error())

	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)

	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)

	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
