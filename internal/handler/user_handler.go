package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/service"
)

// UserHandler serves the user directory endpoints.
type UserHandler struct {
	userService *service.UserService
	responder   Responder
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, logger zerolog.Logger) *UserHandler {
	l := logger.With().Str("handler", "user").Logger()
	return &UserHandler{
		userService: userService,
		responder:   NewResponder(l),
		logger:      l,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.userService.List(r.Context())
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, http.StatusOK, views)
}

// Get handles GET /users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, http.StatusOK, view)
}
