// Package handler provides HTTP handlers for the Inkpress API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/service"
)

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// Responder writes JSON responses and maps errors to HTTP status codes.
type Responder struct {
	logger zerolog.Logger
}

// NewResponder creates a new Responder.
func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// WriteError maps an error to its HTTP status and writes the JSON error
// body. Unrecognized errors become an opaque 500.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		r.logger.Error().Err(err).Msg("request failed")
		message = "internal server error"
	}

	r.WriteJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain and service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidBlogID),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrTitleLength),
		errors.Is(err, domain.ErrContentLength),
		errors.Is(err, domain.ErrCategoryLength),
		errors.Is(err, domain.ErrInvalidAuthor),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBlogNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, service.ErrUsernameLocked):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")
