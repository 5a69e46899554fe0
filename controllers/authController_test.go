package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"drafts-api/db"
	"drafts-api/middlewares"
	"drafts-api/models"
	"drafts-api/utils"
	"drafts-api/web"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return db.ErrEmailTaken
	}
	if err := user.HashPassword(); err != nil {
		return err
	}
	user.ID = uuid.New()
	stored := *user
	f.users[user.Email] = &stored
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

const adaPassword = "Secr3t!pass"

func newAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := utils.SymmetricKey("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	sessions := &middlewares.RedisSessions{Redis: client, Key: key, TTL: time.Hour}

	users := &fakeUserStore{users: map[string]*models.User{}}
	require.NoError(t, users.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com", Password: adaPassword}))

	return &AuthHandler{
		Users:    users,
		Sessions: sessions,
		Pages:    &web.Pages{Sessions: sessions},
	}, users, mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middlewares.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middlewares.SessionCookieName)
	return nil
}

func TestRegister(t *testing.T) {
	h, users, _ := newAuthHandler(t)

	body := `{"name":"Grace","email":"grace@example.com","password":"An0ther!pass"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "An0ther!pass")
	require.Contains(t, users.users, "grace@example.com")
	assert.True(t, users.users["grace@example.com"].CheckPassword("An0ther!pass"))
}

func TestRegisterRejectsInvalidAndDuplicate(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	cases := map[string]struct {
		body   string
		status int
	}{
		"malformed":  {`{`, http.StatusBadRequest},
		"bad email":  {`{"name":"G","email":"nope","password":"An0ther!pass"}`, http.StatusBadRequest},
		"weak":       {`{"name":"G","email":"g@example.com","password":"weak"}`, http.StatusBadRequest},
		"duplicate":  {`{"name":"Ada","email":"ada@example.com","password":"An0ther!pass"}`, http.StatusConflict},
		"empty name": {`{"email":"g@example.com","password":"An0ther!pass"}`, http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestSignInWithFormRedirectsToCallback(t *testing.T) {
	h, _, mr := newAuthHandler(t)

	form := url.Values{"email": {"ada@example.com"}, "password": {adaPassword}, "callbackUrl": {"/create"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/create", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, mr.Keys(), 1)

	sessionReq := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	sessionReq.AddCookie(cookie)
	sessionRec := httptest.NewRecorder()
	h.Session(sessionRec, sessionReq)

	var session models.Session
	require.NoError(t, json.Unmarshal(sessionRec.Body.Bytes(), &session))
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, "Ada", session.User.Name)
}

func TestSignInWithJSON(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		strings.NewReader(`{"email":"ada@example.com","password":"`+adaPassword+`","callbackUrl":"https://evil.example"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"url":"/"}`, rec.Body.String())
	sessionCookie(t, rec)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	h, _, mr := newAuthHandler(t)

	for name, password := range map[string]string{"wrong": "nope", "empty": ""} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
				strings.NewReader(`{"email":"ada@example.com","password":"`+password+`"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.SignIn(rec, req)

			assert.Contains(t, []int{http.StatusUnauthorized, http.StatusBadRequest}, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	form := url.Values{"email": {"nobody@example.com"}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), invalidCredentialsMessage)
	assert.Contains(t, rec.Body.String(), `value="nobody@example.com"`)
	assert.Empty(t, mr.Keys())
}

func TestSignOutRevokesSession(t *testing.T) {
	h, _, mr := newAuthHandler(t)

	token, _, err := h.Sessions.Create(context.Background(), models.SessionUser{Email: "ada@example.com"})
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.SignOut(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, mr.Keys())
	assert.Empty(t, sessionCookie(t, rec).Value)
}

func TestSessionWithoutCookieIsEmptyObject(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}
