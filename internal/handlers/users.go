package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/recordbook/apiserver/internal/store"
	"golang.org/x/crypto/bcrypt"

	"go.uber.org/zap"
)

// UserHandler provides user management endpoints.
type UserHandler struct {
	userService *services.UserService
	sessions    session.Store
	cookies     session.Cookies
	logger      *zap.Logger
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(userService *services.UserService, sessions session.Store, cookies session.Cookies, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		sessions:    sessions,
		cookies:     cookies,
		logger:      logger,
	}
}

// UserRouter registers authentication and user management routes.
func UserRouter(r chi.Router, auth *AuthHandler, users *UserHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/register", auth.Register)
	r.Post("/login", auth.Login)
	r.Get("/logout", auth.Logout)

	r.With(authMiddleware).Get("/all", users.ListUsers)
	r.With(authMiddleware, requireSelf).Put("/{id}", users.UpdateUser)
	r.With(authMiddleware, requireSelf).Delete("/{id}", users.DeleteUser)
}

// requireSelf enforces that a mutating user route addresses the session
// user's own account. Unlike the other resources, the owner is the path
// id itself, so no fetch is needed before the comparison.
func requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
			return
		}

		id, ok := pathID(r, "id")
		if !ok {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}

		if id != actor {
			writeError(w, http.StatusForbidden, "Forbidden. You can only modify or delete your own account.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListUsers returns every account. Password hashes are excluded by the
// type's serialization rules.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving users.")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUser changes the profile fields supplied in the body. At least
// one field must be present; a new password is re-hashed before
// storage.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" && req.Email == "" && req.Password == "" {
		writeError(w, http.StatusBadRequest, "No fields provided for update.")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating user profile.")
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error updating user profile.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if _, err := h.userService.Update(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "Username or email already in use.")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found.")
		default:
			writeError(w, http.StatusInternalServerError, "Error updating user profile.")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User profile successfully updated."})
}

// DeleteUser removes the account and everything it owns: records are
// deleted first, then the user, then the session. A session teardown
// failure is logged but does not turn the deletion into an error.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting user account.")
		return
	}

	if token := session.Token(r); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			h.logger.Error("failed to destroy session after account deletion", zap.Error(err))
		}
	}
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
