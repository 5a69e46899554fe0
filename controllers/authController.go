package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"drafts-api/db"
	"drafts-api/middlewares"
	"drafts-api/models"
	"drafts-api/validation"
	"drafts-api/web"

	"github.com/gorilla/mux"
)

const invalidCredentialsMessage = "Invalid email or password"

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionManager issues, resolves and revokes session cookies.
type SessionManager interface {
	middlewares.SessionResolver
	Create(ctx context.Context, user models.SessionUser) (string, *models.Session, error)
	Revoke(ctx context.Context, token string) error
	SetCookie(w http.ResponseWriter, token string, expires time.Time)
	ClearCookie(w http.ResponseWriter)
}

type AuthHandler struct {
	Users    UserStore
	Sessions SessionManager
	Pages    *web.Pages
}

func (h *AuthHandler) SetupUserRoutes(r *mux.Router) {
	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/signin", h.Pages.SignIn).Methods(http.MethodGet)
	authRouter.HandleFunc("/signin", h.SignIn).Methods(http.MethodPost)
	authRouter.HandleFunc("/signout", h.SignOut).Methods(http.MethodPost)
	authRouter.HandleFunc("/session", h.Session).Methods(http.MethodGet)
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		middlewares.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUserData(user); err != nil {
		middlewares.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			middlewares.RespondError(w, "Email is already registered", http.StatusConflict)
			return
		}
		middlewares.HttpError(w, "Failed to create user", http.StatusInternalServerError, err)
		return
	}

	user.Password = ""
	middlewares.RespondJSON(w, user, http.StatusCreated)
}

func readCredentials(r *http.Request) (validation.Credentials, error) {
	var creds validation.Credentials
	if isJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&creds)
		return creds, err
	}

	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	creds.Email = strings.TrimSpace(r.PostForm.Get("email"))
	creds.Password = r.PostForm.Get("password")
	creds.CallbackURL = r.PostForm.Get("callbackUrl")
	return creds, nil
}

// SignIn checks the credentials and starts a session. Form posts are
// redirected to the callback URL; JSON callers get the URL back.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	asJSON := isJSONRequest(r)

	creds, err := readCredentials(r)
	if err != nil {
		h.signInFailed(w, r, asJSON, creds, "Invalid request body", http.StatusBadRequest)
		return
	}
	callback := web.SafeCallbackURL(creds.CallbackURL)
	creds.CallbackURL = callback

	if err := validation.ValidateCredentials(creds); err != nil {
		h.signInFailed(w, r, asJSON, creds, "Enter a valid email and password", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), creds.Email)
	if err != nil {
		middlewares.HttpError(w, "Failed to retrieve user", http.StatusInternalServerError, err)
		return
	}
	if user == nil || !user.CheckPassword(creds.Password) {
		h.signInFailed(w, r, asJSON, creds, invalidCredentialsMessage, http.StatusUnauthorized)
		return
	}

	token, session, err := h.Sessions.Create(r.Context(), models.SessionUser{Name: user.Name, Email: user.Email})
	if err != nil {
		middlewares.HttpError(w, "Failed to create session", http.StatusInternalServerError, err)
		return
	}
	h.Sessions.SetCookie(w, token, session.Expires)
	log.Printf("signed in %s", user.Email)

	if asJSON {
		middlewares.RespondJSON(w, map[string]interface{}{"ok": true, "url": callback}, http.StatusOK)
		return
	}
	http.Redirect(w, r, callback, http.StatusSeeOther)
}

func (h *AuthHandler) signInFailed(w http.ResponseWriter, r *http.Request, asJSON bool, creds validation.Credentials, message string, status int) {
	if asJSON {
		middlewares.RespondError(w, message, status)
		return
	}
	web.Render(w, r, status, web.SignInPage(web.SignInForm{
		Email:       creds.Email,
		CallbackURL: web.SafeCallbackURL(creds.CallbackURL),
		Error:       message,
	}))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middlewares.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Revoke(r.Context(), cookie.Value); err != nil {
			middlewares.HttpError(w, "Failed to sign out", http.StatusInternalServerError, err)
			return
		}
	}
	h.Sessions.ClearCookie(w)

	if wantsJSON(r) {
		middlewares.RespondJSON(w, map[string]bool{"ok": true}, http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session reports the current session, or an empty object without one.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.GetSession(r)
	if err != nil {
		middlewares.HttpError(w, "Failed to resolve session", http.StatusInternalServerError, err)
		return
	}
	if session == nil {
		middlewares.RespondJSON(w, struct{}{}, http.StatusOK)
		return
	}
	middlewares.RespondJSON(w, session, http.StatusOK)
}
