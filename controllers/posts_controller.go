package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"drafts-api/middlewares"
	"drafts-api/models"
	"drafts-api/validation"

	"github.com/gorilla/mux"
)

const maxPostBodyBytes = 1 << 20

// PostStore is the persistence collaborator behind the post endpoints.
type PostStore interface {
	Create(ctx context.Context, data models.PostCreateData) (models.Post, error)
	ListDrafts(ctx context.Context, authorEmail string) ([]models.Post, error)
}

type PostHandler struct {
	Sessions middlewares.SessionResolver
	Posts    PostStore
}

func (h *PostHandler) SetupPostRoutes(r *mux.Router) {
	// CreatePost answers every method itself so it can advertise Allow.
	r.HandleFunc("/api/post", h.CreatePost)
	r.HandleFunc("/api/drafts", h.ListDrafts).Methods(http.MethodGet)
}

// requireSession writes the error response and returns nil when the request
// has no session with an email.
func (h *PostHandler) requireSession(w http.ResponseWriter, r *http.Request) *models.Session {
	session, err := h.Sessions.GetSession(r)
	if err != nil {
		middlewares.HttpError(w, "Failed to resolve session", http.StatusInternalServerError, err)
		return nil
	}
	if session == nil || session.User.Email == "" {
		middlewares.RespondError(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return session
}

// CreatePost handles POST /api/post. It stores a draft owned by the
// session's account and responds with the created record.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		middlewares.RespondError(w, fmt.Sprintf("Method %s Not Allowed", r.Method), http.StatusMethodNotAllowed)
		return
	}

	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPostBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middlewares.RespondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		middlewares.HttpError(w, validation.TitleRequiredMessage, http.StatusBadRequest, err)
		return
	}

	input, err := validation.ParsePostInput(body)
	if err != nil {
		middlewares.RespondError(w, validation.TitleRequiredMessage, http.StatusBadRequest)
		return
	}

	post, err := h.Posts.Create(r.Context(), models.PostCreateData{
		Title:       input.Title,
		Content:     input.Content,
		Published:   false,
		AuthorEmail: session.User.Email,
	})
	if err != nil {
		log.Printf("HTTP %d - Failed to create post for %s: %v", http.StatusInternalServerError, session.User.Email, err)
		middlewares.RespondJSON(w, middlewares.ErrorResponse{
			Error:   "Failed to create post",
			Details: err.Error(),
		}, http.StatusInternalServerError)
		return
	}

	middlewares.RespondJSON(w, post, http.StatusCreated)
}

// ListDrafts handles GET /api/drafts for the session's account.
func (h *PostHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	drafts, err := h.Posts.ListDrafts(r.Context(), session.User.Email)
	if err != nil {
		middlewares.HttpError(w, "Failed to fetch drafts", http.StatusInternalServerError, err)
		return
	}
	if drafts == nil {
		drafts = []models.Post{}
	}

	middlewares.RespondJSON(w, drafts, http.StatusOK)
}
