package web

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"strings"

	"drafts-api/middlewares"
	"drafts-api/models"

	"github.com/a-h/templ"
)

// DraftLister is the read side of the post store used by the drafts page.
type DraftLister interface {
	ListDrafts(ctx context.Context, authorEmail string) ([]models.Post, error)
}

// Pages serves the server-rendered pages.
type Pages struct {
	Sessions middlewares.SessionResolver
	Drafts   DraftLister
}

// Render writes a component as an HTML response. The component is rendered
// to a buffer first so a failure still yields a clean 500.
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		log.Printf("HTTP %d - failed to render %s: %v", http.StatusInternalServerError, r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// sessionState resolves the visitor's session. A failing resolver leaves
// the page in the loading state so it retries shortly.
func (pg *Pages) sessionState(r *http.Request) models.SessionState {
	session, err := pg.Sessions.GetSession(r)
	if err != nil {
		log.Printf("session lookup failed for %s: %v", r.URL.Path, err)
		return models.SessionState{Status: models.StatusLoading}
	}
	return models.StateOf(session)
}

func (pg *Pages) Create(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, CreatePage(pg.sessionState(r)))
}

func (pg *Pages) DraftList(w http.ResponseWriter, r *http.Request) {
	state := pg.sessionState(r)
	if state.Status != models.StatusAuthenticated {
		Render(w, r, http.StatusOK, DraftsPage(state, nil))
		return
	}

	drafts, err := pg.Drafts.ListDrafts(r.Context(), state.Data.User.Email)
	if err != nil {
		log.Printf("HTTP %d - Failed to fetch drafts: %v", http.StatusInternalServerError, err)
		http.Error(w, "Failed to fetch drafts", http.StatusInternalServerError)
		return
	}

	Render(w, r, http.StatusOK, DraftsPage(state, drafts))
}

func (pg *Pages) SignIn(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, SignInPage(SignInForm{
		CallbackURL: SafeCallbackURL(r.URL.Query().Get("callbackUrl")),
	}))
}

// SafeCallbackURL keeps redirects on this site. Anything that is not a
// plain absolute path becomes "/".
func SafeCallbackURL(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}
