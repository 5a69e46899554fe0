package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drafts-api/models"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	session *models.Session
	err     error
}

func (f fakeResolver) GetSession(*http.Request) (*models.Session, error) {
	return f.session, f.err
}

type fakeLister struct {
	drafts []models.Post
	err    error
	emails []string
}

func (f *fakeLister) ListDrafts(_ context.Context, email string) ([]models.Post, error) {
	f.emails = append(f.emails, email)
	return f.drafts, f.err
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

var adaSession = &models.Session{User: models.SessionUser{Name: "Ada", Email: "ada@example.com"}}

func TestCreatePageLoading(t *testing.T) {
	html := renderString(t, CreatePage(models.SessionState{Status: models.StatusLoading}))

	assert.Contains(t, html, "Loading...")
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.NotContains(t, html, "<form id=\"create-form\"")
	assert.NotContains(t, html, "fetch(")
}

func TestCreatePageUnauthenticated(t *testing.T) {
	html := renderString(t, CreatePage(models.SessionState{Status: models.StatusUnauthenticated}))

	assert.Contains(t, html, "<h1>Access Denied</h1>")
	assert.Contains(t, html, "You need to be signed in to create a post.")
	assert.Contains(t, html, `action="/api/auth/signin"`)
	assert.Contains(t, html, `name="callbackUrl" value="/create"`)
	assert.Contains(t, html, "Sign In</button>")
	assert.NotContains(t, html, "create-form")
}

func TestCreatePageAuthenticated(t *testing.T) {
	html := renderString(t, CreatePage(models.StateOf(adaSession)))

	assert.Contains(t, html, "<h1>New Draft</h1>")
	assert.Contains(t, html, "Signed in as: ada@example.com")
	assert.Contains(t, html, `<input autofocus name="title" placeholder="Title" type="text"`)
	assert.Contains(t, html, `<textarea cols="50" name="content" placeholder="Content" rows="8">`)
	assert.Contains(t, html, `<input disabled name="submit" type="submit" value="Create">`)
	assert.Contains(t, html, `credentials: "include"`)
	assert.Contains(t, html, `window.location.assign("/drafts")`)
	assert.Contains(t, html, createPostAlert)
	assert.Contains(t, html, `href="/">or Cancel</a>`)
}

func TestCreatePageEscapesSessionName(t *testing.T) {
	session := &models.Session{User: models.SessionUser{Email: `<b>x</b>@example.com`}}
	html := renderString(t, CreatePage(models.StateOf(session)))

	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;@example.com")
}

func TestDraftsPageRendersMarkdownAndEscapesTitles(t *testing.T) {
	content := "Some **bold** text"
	drafts := []models.Post{
		{Title: "<script>t</script>", Content: &content, Author: &models.Author{Name: "Ada", Email: "ada@example.com"}},
		{Title: "No content"},
	}

	html := renderString(t, DraftsPage(models.StateOf(adaSession), drafts))

	assert.Contains(t, html, "<h1>My Drafts</h1>")
	assert.Contains(t, html, "&lt;script&gt;t&lt;/script&gt;")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "By Ada")
	assert.Contains(t, html, "No content")
}

func TestDraftsPageFoldsLongDrafts(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 60)
	drafts := []models.Post{{Title: "Long", Content: &long}}

	html := renderString(t, DraftsPage(models.StateOf(adaSession), drafts))
	assert.Contains(t, html, `<span class="badge">Draft</span>`)
	assert.Contains(t, html, `<p class="excerpt">`)
	assert.Contains(t, html, "<summary>Read draft</summary>")
}

func TestDraftsPageEmptyAndDenied(t *testing.T) {
	html := renderString(t, DraftsPage(models.StateOf(adaSession), nil))
	assert.Contains(t, html, "No drafts yet.")

	html = renderString(t, DraftsPage(models.SessionState{Status: models.StatusUnauthenticated}, nil))
	assert.Contains(t, html, "Access Denied")
	assert.Contains(t, html, `value="/drafts"`)
}

func TestPagesCreateUsesResolvedSession(t *testing.T) {
	cases := map[string]struct {
		resolver fakeResolver
		expect   string
	}{
		"authenticated":   {fakeResolver{session: adaSession}, "New Draft"},
		"unauthenticated": {fakeResolver{}, "Access Denied"},
		"no email":        {fakeResolver{session: &models.Session{User: models.SessionUser{Name: "Ada"}}}, "Access Denied"},
		"resolver error":  {fakeResolver{err: errors.New("redis down")}, "Loading..."},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			pages := &Pages{Sessions: tc.resolver, Drafts: &fakeLister{}}
			rec := httptest.NewRecorder()
			pages.Create(rec, httptest.NewRequest(http.MethodGet, CreatePath, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tc.expect)
		})
	}
}

func TestPagesDraftListQueriesSessionEmail(t *testing.T) {
	lister := &fakeLister{drafts: []models.Post{{Title: "First draft"}}}
	pages := &Pages{Sessions: fakeResolver{session: adaSession}, Drafts: lister}

	rec := httptest.NewRecorder()
	pages.DraftList(rec, httptest.NewRequest(http.MethodGet, DraftsPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "First draft")
	assert.Equal(t, []string{"ada@example.com"}, lister.emails)
}

func TestPagesDraftListSkipsStoreWithoutSession(t *testing.T) {
	lister := &fakeLister{}
	pages := &Pages{Sessions: fakeResolver{}, Drafts: lister}

	rec := httptest.NewRecorder()
	pages.DraftList(rec, httptest.NewRequest(http.MethodGet, DraftsPath, nil))

	assert.Contains(t, rec.Body.String(), "Access Denied")
	assert.Empty(t, lister.emails)
}

func TestPagesDraftListStoreFailure(t *testing.T) {
	pages := &Pages{Sessions: fakeResolver{session: adaSession}, Drafts: &fakeLister{err: errors.New("DB down")}}

	rec := httptest.NewRecorder()
	pages.DraftList(rec, httptest.NewRequest(http.MethodGet, DraftsPath, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPagesSignInSanitizesCallback(t *testing.T) {
	pages := &Pages{Sessions: fakeResolver{}, Drafts: &fakeLister{}}

	rec := httptest.NewRecorder()
	pages.SignIn(rec, httptest.NewRequest(http.MethodGet, SignInPath+"?callbackUrl=%2Fcreate", nil))
	assert.Contains(t, rec.Body.String(), `name="callbackUrl" value="/create"`)

	rec = httptest.NewRecorder()
	pages.SignIn(rec, httptest.NewRequest(http.MethodGet, SignInPath+"?callbackUrl=https%3A%2F%2Fevil.example", nil))
	assert.Contains(t, rec.Body.String(), `name="callbackUrl" value="/"`)
}

func TestSafeCallbackURL(t *testing.T) {
	assert.Equal(t, "/drafts", SafeCallbackURL("/drafts"))
	assert.Equal(t, "/", SafeCallbackURL(""))
	assert.Equal(t, "/", SafeCallbackURL("//evil.example"))
	assert.Equal(t, "/", SafeCallbackURL(`/\evil.example`))
	assert.Equal(t, "/", SafeCallbackURL("https://evil.example"))
}
