package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/store"
)

type contextKey string

const contextUserKey contextKey = "userID"

// userIDFromContext returns the authenticated user id injected by
// RequireAuth.
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(contextUserKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("missing user id")
	}
	return userID, nil
}

// MessageResponse is the uniform success/error payload body.
type MessageResponse struct {
	Message string `json:"message"`
}

// IDResponse carries an operation message together with the user id it
// concerns.
type IDResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// pathID parses the named URL parameter as a UUID. Malformed ids are
// indistinguishable from missing documents, so callers treat a false
// return as 404.
func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// fetchOwned loads a document by its path id and asserts the actor owns
// it: absent or malformed id yields 404, an owner mismatch yields 403.
// It is the single authorization step shared by every resource
// controller, reads included, so the fetch also serves as the
// controller's working copy of the document.
func fetchOwned[T any](
	w http.ResponseWriter,
	r *http.Request,
	entity string,
	get func(context.Context, uuid.UUID) (T, error),
	owner func(T) uuid.UUID,
) (T, bool) {
	var zero T

	actor, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
		return zero, false
	}

	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found.", entity))
		return zero, false
	}

	doc, err := get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found.", entity))
			return zero, false
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error retrieving %s.", entity))
		return zero, false
	}

	if owner(doc) != actor {
		writeError(w, http.StatusForbidden, fmt.Sprintf("Unauthorized. Only the owner can access this %s.", strings.ToLower(entity)))
		return zero, false
	}

	return doc, true
}

// Healthz responds to liveness probes.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
