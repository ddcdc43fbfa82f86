package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/service"
)

// BlogHandler serves the blog endpoints. Reads are public; writes
// require authentication and attribute the change to the caller.
type BlogHandler struct {
	blogService *service.BlogService
	responder   Responder
	logger      zerolog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService *service.BlogService, logger zerolog.Logger) *BlogHandler {
	l := logger.With().Str("handler", "blog").Logger()
	return &BlogHandler{
		blogService: blogService,
		responder:   NewResponder(l),
		logger:      l,
	}
}

// blogBody is the JSON shape of blog create and update requests.
type blogBody struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// List handles GET /blogs.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.blogService.GetAll(r.Context())
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, http.StatusOK, views)
}

// Get handles GET /blogs/{blogID}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.blogService.GetByID(r.Context(), chi.URLParam(r, "blogID"))
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, http.StatusOK, view)
}

// Create handles POST /blogs.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.WriteError(w, domain.ErrInvalidToken)
		return
	}

	body, image, err := h.parseBlogRequest(r)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	view, err := h.blogService.Create(r.Context(), service.CreateBlogInput{
		Title:    body.Title,
		Content:  body.Content,
		AuthorID: identity.UserID,
		Tags:     body.Tags,
		Category: body.Category,
		Image:    image,
	})
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusCreated, view)
}

// Update handles PATCH /blogs/{blogID}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.WriteError(w, domain.ErrInvalidToken)
		return
	}

	body, image, err := h.parseBlogRequest(r)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	view, err := h.blogService.Update(r.Context(), service.UpdateBlogInput{
		BlogID:   chi.URLParam(r, "blogID"),
		Title:    body.Title,
		Content:  body.Content,
		EditorID: identity.UserID,
		Tags:     body.Tags,
		Category: body.Category,
		Image:    image,
	})
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /blogs/{blogID}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	output, err := h.blogService.Delete(r.Context(), chi.URLParam(r, "blogID"))
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, http.StatusOK, output)
}

// parseBlogRequest decodes a blog create/update body from JSON or
// multipart form data.
func (h *BlogHandler) parseBlogRequest(r *http.Request) (*blogBody, *service.ImageUpload, error) {
	if !isMultipart(r) {
		var body blogBody
		if err := decodeJSON(r, &body); err != nil {
			return nil, nil, err
		}
		return &body, nil, nil
	}

	if err := parseMultipart(r); err != nil {
		return nil, nil, err
	}

	body := blogBody{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
	}

	tags, err := parseTags(r.MultipartForm.Value["tags"])
	if err != nil {
		return nil, nil, err
	}
	body.Tags = tags

	image, err := formImage(r, "image")
	if err != nil {
		return nil, nil, err
	}

	return &body, image, nil
}
