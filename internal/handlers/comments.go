package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
)

// CommentHandler provides HTTP handlers for comments. Reads are public;
// mutations require a session and, for a specific comment, authorship.
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRouter registers comment routes.
func CommentRouter(r chi.Router, commentService *services.CommentService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewCommentHandler(commentService)

	r.Get("/", handler.ListComments)
	r.Get("/record/{recordID}", handler.ListCommentsByRecord)
	r.Get("/{id}", handler.GetComment)
	r.With(authMiddleware).Post("/", handler.CreateComment)
	r.With(authMiddleware).Put("/{id}", handler.UpdateComment)
	r.With(authMiddleware).Delete("/{id}", handler.DeleteComment)
}

type CommentCreateRequest struct {
	RecordID uuid.UUID `json:"record_id"`
	Text     string    `json:"text"`
}

type CommentUpdateRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving comments.")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) ListCommentsByRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(r, "recordID")
	if !ok {
		writeError(w, http.StatusNotFound, "Record not found.")
		return
	}

	comments, err := h.commentService.ListByRecord(r.Context(), recordID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving comments.")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found.")
		return
	}

	comment, err := h.commentService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error retrieving comment.")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
		return
	}

	var req CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.RecordID == uuid.Nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "recordId and text are required.")
		return
	}
	if utf8.RuneCountInString(req.Text) > types.MaxCommentLength {
		writeError(w, http.StatusBadRequest, "Comment text exceeds the maximum length.")
		return
	}

	comment, err := h.commentService.Create(r.Context(), types.Comment{
		RecordID: req.RecordID,
		AuthorID: actor,
		Text:     req.Text,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error creating comment.")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := fetchOwned(w, r, "Comment", h.commentService.Get, func(c types.Comment) uuid.UUID { return c.AuthorID })
	if !ok {
		return
	}

	var req CommentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Comment text is required for update.")
		return
	}
	if utf8.RuneCountInString(req.Text) > types.MaxCommentLength {
		writeError(w, http.StatusBadRequest, "Comment text exceeds the maximum length.")
		return
	}

	comment.Text = req.Text
	updated, err := h.commentService.Update(r.Context(), comment)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating comment.")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := fetchOwned(w, r, "Comment", h.commentService.Get, func(c types.Comment) uuid.UUID { return c.AuthorID })
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), comment.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting comment.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
