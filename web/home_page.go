package web

import (
	"net/http"

	"drafts-api/models"

	"github.com/a-h/templ"
)

func HomePage(state models.SessionState) templ.Component {
	return Layout(LayoutOptions{Session: state.Data}, component(func(p *pageWriter) {
		p.raw(`<div><h1>Drafts</h1>`)
		if state.Status == models.StatusAuthenticated {
			p.raw(`<p><a href="` + CreatePath + `">Write a new draft</a> or <a href="` + DraftsPath + `">see your drafts</a>.</p>`)
		} else {
			p.raw(`<p><a href="` + SignInPath + `">Sign in</a> to start writing.</p>`)
		}
		p.raw(`</div>`)
	}))
}

func (pg *Pages) Home(w http.ResponseWriter, r *http.Request) {
	Render(w, r, http.StatusOK, HomePage(pg.sessionState(r)))
}
