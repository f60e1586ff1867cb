package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/internal/service"
	pkgmiddleware "github.com/amanuelmandefro3/amr-blog/pkg/middleware"
	"github.com/amanuelmandefro3/amr-blog/pkg/validator"
)

// BlogHandler handles HTTP requests for blog endpoints.
type BlogHandler struct {
	service *service.BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog HTTP handler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{service: svc, logger: logger}
}

// CreateBlogRequest is the JSON request body for publishing a blog.
type CreateBlogRequest struct {
	Title                   string                `json:"title" validate:"required,min=1,max=200"`
	TitleBackgroundImageURL string                `json:"title_background_image_url" validate:"omitempty,url,max=2048"`
	Content                 []domain.ContentBlock `json:"content" validate:"required,min=1"`
	Tags                    []string              `json:"tags" validate:"max=10,dive,min=1,max=50"`
}

// UpdateBlogRequest is the JSON request body for editing a blog.
type UpdateBlogRequest struct {
	Title                   *string               `json:"title" validate:"omitempty,min=1,max=200"`
	TitleBackgroundImageURL *string               `json:"title_background_image_url" validate:"omitempty,url,max=2048"`
	Content                 []domain.ContentBlock `json:"content" validate:"omitempty,min=1"`
	Tags                    []string              `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// CommentRequest is the JSON request body for adding or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// ListResponse wraps a page of blogs with the total count.
type ListResponse struct {
	Blogs any `json:"blogs"`
	Total int `json:"total"`
}

// Create handles POST /api/v1/blogs (authenticated)
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	authorID := pkgmiddleware.UserIDFromContext(r.Context())
	blog, err := h.service.Create(r.Context(), authorID, service.CreateBlogInput{
		Title:                   req.Title,
		TitleBackgroundImageURL: req.TitleBackgroundImageURL,
		Content:                 req.Content,
		Tags:                    req.Tags,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: blog})
}

// List handles GET /api/v1/blogs
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	if author := r.URL.Query().Get("author"); author != "" {
		blogs, total, err := h.service.ListByAuthor(r.Context(), author, limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Data: ListResponse{Blogs: blogs, Total: total}})
		return
	}

	blogs, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: ListResponse{Blogs: blogs, Total: total}})
}

// Search handles GET /api/v1/blogs/search?q=...
func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	blogs, total, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: ListResponse{Blogs: blogs, Total: total}})
}

// Get handles GET /api/v1/blogs/{id}. A valid bearer also records the read
// in the viewer's history.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := pkgmiddleware.UserIDFromContext(r.Context())
	blog, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: blog})
}

// GetBySlug handles GET /api/v1/blogs/slug/{slug}. A valid bearer also
// records the read in the viewer's history.
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	viewerID := pkgmiddleware.UserIDFromContext(r.Context())
	blog, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"), viewerID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: blog})
}

// Update handles PUT /api/v1/blogs/{id} (authenticated, author only)
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())
	blog, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), service.UpdateBlogInput{
		Title:                   req.Title,
		TitleBackgroundImageURL: req.TitleBackgroundImageURL,
		Content:                 req.Content,
		Tags:                    req.Tags,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: blog})
}

// Delete handles DELETE /api/v1/blogs/{id} (authenticated, author only)
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "blog deleted"}})
}

// Like handles POST /api/v1/blogs/{id}/like (authenticated, toggles)
func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	liked, err := h.service.ToggleLike(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]bool{"liked": liked}})
}

// Share handles POST /api/v1/blogs/{id}/share
func (h *BlogHandler) Share(w http.ResponseWriter, r *http.Request) {
	shares, err := h.service.Share(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]int{"shares": shares}})
}

// AddComment handles POST /api/v1/blogs/{id}/comments (authenticated)
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())
	comment, err := h.service.AddComment(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: comment})
}

// UpdateComment handles PUT /api/v1/blogs/{id}/comments/{commentID}
// (authenticated, comment author only)
func (h *BlogHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())
	comment, err := h.service.UpdateComment(r.Context(), userID,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/blogs/{id}/comments/{commentID}
// (authenticated, comment author only)
func (h *BlogHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	err := h.service.DeleteComment(r.Context(), userID,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentID"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "comment deleted"}})
}

// ListComments handles GET /api/v1/blogs/{id}/comments
func (h *BlogHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: comments})
}

// Recommendations handles GET /api/v1/blogs/recommendations (authenticated).
// The list is derived from the viewer's liked and read history.
func (h *BlogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	blogs, err := h.service.Recommend(r.Context(), userID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: blogs})
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
