package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"drafts-api/models"
	"drafts-api/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const SessionCookieName = "session_token"

// SessionResolver resolves the session behind a request. A request without
// a usable session yields nil and no error.
type SessionResolver interface {
	GetSession(r *http.Request) (*models.Session, error)
}

// RedisSessions issues PASETO session cookies backed by records in Redis,
// so sessions can be revoked before the token expires.
type RedisSessions struct {
	Redis        *redis.Client
	Key          []byte
	TTL          time.Duration
	SecureCookie bool
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create stores a new session for the user and returns its token.
func (s *RedisSessions) Create(ctx context.Context, user models.SessionUser) (string, *models.Session, error) {
	session := &models.Session{
		ID:      uuid.NewString(),
		User:    user,
		Expires: time.Now().Add(s.TTL).UTC(),
	}

	token, err := utils.GeneratePASETO(s.Key, session.ID, s.TTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", nil, err
	}
	if err := s.Redis.Set(ctx, sessionKey(session.ID), data, s.TTL).Err(); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	return token, session, nil
}

func (s *RedisSessions) GetSession(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := utils.ValidatePASETO(s.Key, cookie.Value)
	if err != nil {
		return nil, nil
	}

	data, err := s.Redis.Get(r.Context(), sessionKey(claims.SessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching session from Redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, nil
	}
	session.ID = claims.SessionID

	return &session, nil
}

// Revoke deletes the session behind a token. Unknown tokens are ignored.
func (s *RedisSessions) Revoke(ctx context.Context, token string) error {
	claims, err := utils.ValidatePASETO(s.Key, token)
	if err != nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(claims.SessionID)).Err()
}

// SetCookie writes the session cookie.
func (s *RedisSessions) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearCookie expires the session cookie.
func (s *RedisSessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}
