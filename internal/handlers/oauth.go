package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/config"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateTTL           = 10 * time.Minute
	defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler implements Google external-identity login. The wire
// protocol is delegated to golang.org/x/oauth2; this handler only
// implements the account-linking policy.
type OAuthHandler struct {
	userService *services.UserService
	sessions    session.Store
	states      session.StateStore
	cookies     session.Cookies
	oauth       *oauth2.Config
	userinfoURL string
	logger      *zap.Logger
}

func NewOAuthHandler(
	userService *services.UserService,
	sessions session.Store,
	states session.StateStore,
	cookies session.Cookies,
	cfg config.GoogleConfig,
	logger *zap.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		userService: userService,
		sessions:    sessions,
		states:      states,
		cookies:     cookies,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: defaultUserinfoURL,
		logger:      logger,
	}
}

// OAuthRouter registers the external login routes.
func OAuthRouter(r chi.Router, handler *OAuthHandler) {
	r.Get("/google", handler.Start)
	r.Get("/google/callback", handler.Callback)
}

// Start redirects the client to the provider's consent page with a
// one-time state value.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	if err := h.states.SetState(r.Context(), state, stateTTL); err != nil {
		h.logger.Error("failed to store oauth state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error starting external login.")
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// googleUserinfo is the subset of the provider's userinfo response the
// linking policy needs.
type googleUserinfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Callback finishes the provider flow: it validates the state, exchanges
// the code, fetches the user's profile, and resolves it to a local
// account before establishing a session.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	valid, err := h.states.ConsumeState(r.Context(), state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error completing external login.")
		return
	}
	if state == "" || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid or expired login attempt.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusUnauthorized, "External login was not completed.")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "External login failed.")
		return
	}

	info, err := h.fetchUserinfo(r, token)
	if err != nil {
		h.logger.Error("failed to fetch userinfo", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error completing external login.")
		return
	}

	user, err := h.resolveAccount(r, info)
	if err != nil {
		var status *statusError
		if errors.As(err, &status) {
			writeError(w, status.code, status.message)
			return
		}
		h.logger.Error("failed to resolve external account", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error completing external login.")
		return
	}

	sessionToken, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error establishing session.")
		return
	}
	h.cookies.Set(w, sessionToken)
	writeJSON(w, http.StatusOK, IDResponse{Message: "Logged in successfully!", UserID: user.ID})
}

func (h *OAuthHandler) fetchUserinfo(r *http.Request, token *oauth2.Token) (googleUserinfo, error) {
	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get(h.userinfoURL)
	if err != nil {
		return googleUserinfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserinfo{}, errors.New("userinfo request failed")
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserinfo{}, err
	}
	if info.ID == "" || info.Email == "" {
		return googleUserinfo{}, errors.New("incomplete userinfo response")
	}
	return info, nil
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string { return e.message }

// resolveAccount maps a provider identity to a local user: match by
// provider id first, then link by email, but only when the provider has
// itself verified that email. An unverified email never auto-links to
// an existing account.
func (h *OAuthHandler) resolveAccount(r *http.Request, info googleUserinfo) (types.User, error) {
	ctx := r.Context()

	user, err := h.userService.GetByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	user, err = h.userService.GetByEmail(ctx, info.Email)
	if err == nil {
		if !info.VerifiedEmail {
			return types.User{}, &statusError{
				code:    http.StatusForbidden,
				message: "An account with this email already exists. Verify the email with your provider or log in with your password.",
			}
		}
		user.GoogleID = info.ID
		return h.userService.Update(ctx, user)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	created, err := h.userService.Create(ctx, types.User{
		Username: info.Name,
		Email:    info.Email,
		GoogleID: info.ID,
	})
	if errors.Is(err, store.ErrConflict) {
		// The provider display name collided with an existing
		// username. External accounts do not need one.
		return h.userService.Create(ctx, types.User{
			Email:    info.Email,
			GoogleID: info.ID,
		})
	}
	return created, err
}
