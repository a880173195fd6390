package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler provides session-cookie authentication endpoints.
type AuthHandler struct {
	userService *services.UserService
	sessions    session.Store
	cookies     session.Cookies
	logger      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, sessions session.Store, cookies session.Cookies, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		cookies:     cookies,
		logger:      logger,
	}
}

// RequireAuth resolves the session cookie to a user id and injects it
// into the request context. Requests without a resolvable session get
// 401 before reaching any controller.
func RequireAuth(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.Token(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					writeError(w, http.StatusUnauthorized, "Access denied. Please log in.")
					return
				}
				writeError(w, http.StatusInternalServerError, "Error resolving session.")
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account, hashes the password, and establishes
// a session so the new user is immediately logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required.")
		return
	}

	existing, err := h.userService.FindDuplicate(r.Context(), req.Username, req.Email)
	if err == nil {
		if existing.Username == req.Username {
			writeError(w, http.StatusConflict, "Username already exists.")
		} else {
			writeError(w, http.StatusConflict, "Email already in use.")
		}
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Error registering user.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error registering user.")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Username or email already exists.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error registering user.")
		return
	}

	h.establishSession(w, r, user, http.StatusCreated, "User registered and logged in successfully!")
}

// Login verifies credentials against the stored hash and establishes a
// session. The failure message never distinguishes an unknown
// identifier from a wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := h.userService.GetByIdentifier(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error logging in.")
		return
	}

	// Accounts created through an external provider have no hash to
	// compare against.
	if !user.CanPasswordLogin() {
		writeError(w, http.StatusUnauthorized, "This account uses external login. Please sign in with your identity provider.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	h.establishSession(w, r, user, http.StatusOK, "Logged in successfully!")
}

// Logout destroys the session. It succeeds whether or not a session
// existed, so calling it twice is harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := session.Token(r); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			writeError(w, http.StatusInternalServerError, "Error logging out.")
			return
		}
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully."})
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, user types.User, status int, message string) {
	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		writeError(w, http.StatusInternalServerError, "Error establishing session.")
		return
	}
	h.cookies.Set(w, token)
	writeJSON(w, status, IDResponse{Message: message, UserID: user.ID})
}
