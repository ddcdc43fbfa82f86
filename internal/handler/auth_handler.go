package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/service"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
	responder   Responder
	logger      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger zerolog.Logger) *AuthHandler {
	l := logger.With().Str("handler", "auth").Logger()
	return &AuthHandler{
		authService: authService,
		responder:   NewResponder(l),
		logger:      l,
	}
}

// tokenResponse is the reply to successful signup and signin.
type tokenResponse struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

// SignUp handles POST /auth/signup. Accepts JSON or, when a profile
// image is attached, multipart form data.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input service.SignUpInput

	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Name = r.FormValue("name")
		input.Username = r.FormValue("username")
		input.Password = r.FormValue("password")

		image, err := formImage(r, "image")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Image = image
	} else {
		var body struct {
			Name     string `json:"name"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Name = body.Name
		input.Username = body.Username
		input.Password = body.Password
	}

	output, err := h.authService.SignUp(r.Context(), input)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusCreated, tokenResponse{Token: output.Token, User: output.User})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.responder.WriteError(w, err)
		return
	}

	output, err := h.authService.SignIn(r.Context(), service.SignInInput{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusOK, tokenResponse{Token: output.Token, User: output.User})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.WriteError(w, domain.ErrInvalidToken)
		return
	}

	view, err := h.authService.GetCurrentUser(r.Context(), identity.UserID)
	if err != nil {
		// On this route a vanished user is an authentication failure,
		// not a missing resource.
		if errors.Is(err, domain.ErrUserNotFound) {
			h.responder.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "user no longer exists"})
			return
		}
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusOK, view)
}

// UpdateMe handles PATCH /auth/me. Absent fields are left unchanged;
// a new image replaces the current one.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.WriteError(w, domain.ErrInvalidToken)
		return
	}

	input := service.UpdateUserInput{UserID: identity.UserID}

	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if v, ok := formValue(r, "name"); ok {
			input.Name = &v
		}
		if v, ok := formValue(r, "username"); ok {
			input.Username = &v
		}
		if v, ok := formValue(r, "password"); ok {
			input.Password = &v
		}

		image, err := formImage(r, "image")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Image = image
	} else {
		var body struct {
			Name     *string `json:"name"`
			Username *string `json:"username"`
			Password *string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Name = body.Name
		input.Username = body.Username
		input.Password = body.Password
	}

	view, err := h.authService.UpdateUser(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.responder.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "user no longer exists"})
			return
		}
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusOK, view)
}
