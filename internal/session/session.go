package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/recordbook/apiserver/config"
)

// CookieName is the fixed name of the session cookie.
const CookieName = "session_id"

// TTL is the session lifetime; the cookie MaxAge matches it.
const TTL = 24 * time.Hour

const keyPrefix = "session:"

// ErrNoSession is returned when a token does not resolve to a user.
// Absence is an expected outcome consumed by the auth middleware, not a
// failure of the store itself.
var ErrNoSession = errors.New("session not found")

// Store resolves opaque session tokens to user ids.
type Store interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Destroy(ctx context.Context, token string) error
}

// StateStore holds short-lived one-time values for the external login
// flow.
type StateStore interface {
	SetState(ctx context.Context, state string, ttl time.Duration) error
	ConsumeState(ctx context.Context, state string) (bool, error)
}

// RedisStore keeps sessions in Redis with a TTL matching the cookie
// lifetime, so expiry needs no cleanup job.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping verifies the Redis connection at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, userID.String(), TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrNoSession
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrNoSession
	}
	return userID, nil
}

// Destroy is idempotent: deleting a missing or expired token is not an
// error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

// SetState stores a short-lived OAuth state value.
func (s *RedisStore) SetState(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, "oauthstate:"+state, "1", ttl).Err()
}

// ConsumeState validates and removes an OAuth state value. It reports
// false when the state is unknown or already used.
func (s *RedisStore) ConsumeState(ctx context.Context, state string) (bool, error) {
	deleted, err := s.client.Del(ctx, "oauthstate:"+state).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// Cookies writes and clears the session cookie with environment-driven
// attributes: Secure and SameSite=None in production (cross-origin over
// HTTPS), SameSite=Lax locally.
type Cookies struct {
	Production bool
}

func (c Cookies) sameSite() http.SameSite {
	if c.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Set attaches the session cookie to the response.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
	})
}

// Clear instructs the client to drop the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
	})
}

// Token extracts the session token from the request cookie. An empty
// string means no session was presented.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
