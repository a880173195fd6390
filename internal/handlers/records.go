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

// RecordHandler provides HTTP handlers for records. Records are
// private: every route requires a session and single-record routes
// require ownership.
type RecordHandler struct {
	recordService *services.RecordService
}

func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// RecordRouter registers record routes, all behind authentication.
func RecordRouter(r chi.Router, recordService *services.RecordService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewRecordHandler(recordService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListRecords)
	r.Post("/", handler.CreateRecord)
	r.Get("/{id}", handler.GetRecord)
	r.Put("/{id}", handler.UpdateRecord)
	r.Delete("/{id}", handler.DeleteRecord)
}

type RecordUpsertRequest struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// ListRecords returns the session user's own records only.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	actor, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
		return
	}

	records, err := h.recordService.ListByOwner(r.Context(), actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving records.")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := fetchOwned(w, r, "Record", h.recordService.Get, func(rec types.Record) uuid.UUID { return rec.OwnerID })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	actor, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
		return
	}

	var req RecordUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" {
		writeError(w, http.StatusBadRequest, "First name is required.")
		return
	}

	record, err := h.recordService.Create(r.Context(), types.Record{
		OwnerID:    actor,
		CategoryID: req.CategoryID,
		FirstName:  req.FirstName,
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
	})
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Category not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error creating record.")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := fetchOwned(w, r, "Record", h.recordService.Get, func(rec types.Record) uuid.UUID { return rec.OwnerID })
	if !ok {
		return
	}

	var req RecordUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" {
		writeError(w, http.StatusBadRequest, "First name is required.")
		return
	}

	record.FirstName = req.FirstName
	record.LastName = strings.TrimSpace(req.LastName)
	record.Email = strings.TrimSpace(req.Email)
	record.CategoryID = req.CategoryID

	updated, err := h.recordService.Update(r.Context(), record)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "Category not found.")
		case errors.Is(err, store.ErrNotFound):
			// The record was deleted between the ownership check and
			// the write.
			writeError(w, http.StatusNotFound, "Record not found.")
		default:
			writeError(w, http.StatusInternalServerError, "Error updating record.")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := fetchOwned(w, r, "Record", h.recordService.Get, func(rec types.Record) uuid.UUID { return rec.OwnerID })
	if !ok {
		return
	}

	if err := h.recordService.Delete(r.Context(), record.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting record.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
