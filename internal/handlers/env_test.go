package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv assembles the full route tree over in-memory fakes, so tests
// exercise routing, middleware ordering, and handlers together.
type testEnv struct {
	router     *chi.Mux
	users      *fakeUserRepo
	categories *fakeCategoryRepo
	records    *fakeRecordRepo
	comments   *fakeCommentRepo
	sessions   *fakeSessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:      &fakeUserRepo{},
		categories: &fakeCategoryRepo{},
		records:    &fakeRecordRepo{},
		comments:   &fakeCommentRepo{},
		sessions:   newFakeSessionStore(),
	}

	userService := services.NewUserService(env.users, env.records)
	categoryService := services.NewCategoryService(env.categories, env.records)
	recordService := services.NewRecordService(env.records, env.categories)
	commentService := services.NewCommentService(env.comments, env.records)

	cookies := session.Cookies{}
	logger := zap.NewNop()
	authMiddleware := RequireAuth(env.sessions)

	authHandler := NewAuthHandler(userService, env.sessions, cookies, logger)
	userHandler := NewUserHandler(userService, env.sessions, cookies, logger)

	router := chi.NewRouter()
	router.Route("/user", func(r chi.Router) {
		UserRouter(r, authHandler, userHandler, authMiddleware)
	})
	router.Route("/category", func(r chi.Router) {
		CategoryRouter(r, categoryService, authMiddleware)
	})
	router.Route("/record", func(r chi.Router) {
		RecordRouter(r, recordService, authMiddleware)
	})
	router.Route("/comment", func(r chi.Router) {
		CommentRouter(r, commentService, authMiddleware)
	})

	env.router = router
	return env
}

// do issues a request against the route tree. A non-empty session token
// is attached as the session cookie.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

// register creates an account through the API and returns the user id
// and session token issued by auto-login.
func (e *testEnv) register(t *testing.T, username, email, password string) (uuid.UUID, string) {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/user/register", "", RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var body IDResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	token := sessionCookie(t, resp)
	require.NotEmpty(t, token)
	return body.UserID, token
}

// sessionCookie extracts the session token set on a response; empty
// when no session cookie was written.
func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie.Value
		}
	}
	return ""
}

func decodeJSON[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &value))
	return value
}
