package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
)

// CategoryHandler provides HTTP handlers for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRouter registers category routes. Reads are public; mutations
// require a session and, for a specific category, ownership.
func CategoryRouter(r chi.Router, categoryService *services.CategoryService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewCategoryHandler(categoryService)

	r.Get("/", handler.ListCategories)
	r.Get("/{id}", handler.GetCategory)
	r.With(authMiddleware).Post("/", handler.CreateCategory)
	r.With(authMiddleware).Put("/{id}", handler.UpdateCategory)
	r.With(authMiddleware).Delete("/{id}", handler.DeleteCategory)
}

type CategoryUpsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error retrieving category.")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
		return
	}

	var req CategoryUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	category, err := h.categoryService.Create(r.Context(), types.Category{
		Name:        req.Name,
		OwnerID:     actor,
		Description: strings.TrimSpace(req.Description),
		Color:       strings.TrimSpace(req.Color),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Category already exists.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error creating category.")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := fetchOwned(w, r, "Category", h.categoryService.Get, func(c types.Category) uuid.UUID { return c.OwnerID })
	if !ok {
		return
	}

	var req CategoryUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Category name is required for update.")
		return
	}

	category.Name = req.Name
	if req.Description != "" {
		category.Description = strings.TrimSpace(req.Description)
	}
	if req.Color != "" {
		category.Color = strings.TrimSpace(req.Color)
	}

	updated, err := h.categoryService.Update(r.Context(), category)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "Category already exists.")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Category not found.")
		default:
			writeError(w, http.StatusInternalServerError, "Error updating category.")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory removes a category after detaching it from every
// record that referenced it.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := fetchOwned(w, r, "Category", h.categoryService.Get, func(c types.Category) uuid.UUID { return c.OwnerID })
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), category.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting category.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
