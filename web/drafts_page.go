package web

import (
	"strings"

	"drafts-api/markdown"
	"drafts-api/models"

	"github.com/a-h/templ"
)

const (
	draftsDeniedMessage = "You need to be signed in to view your drafts."
	excerptChars        = 280
)

// DraftsPage lists the signed-in author's unpublished posts.
func DraftsPage(state models.SessionState, drafts []models.Post) templ.Component {
	switch state.Status {
	case models.StatusLoading:
		return Layout(LayoutOptions{Title: "Loading", RefreshSeconds: loadingRetrySeconds}, Loading())
	case models.StatusUnauthenticated:
		return Layout(LayoutOptions{Title: "Access Denied"}, AccessDenied(draftsDeniedMessage, DraftsPath))
	}

	return Layout(LayoutOptions{Title: "My Drafts", Session: state.Data, ExtraCSS: markdown.ChromaCSS()}, draftList(drafts))
}

func draftList(drafts []models.Post) templ.Component {
	return component(func(p *pageWriter) {
		p.raw(`<div><h1>My Drafts</h1>`)
		if len(drafts) == 0 {
			p.raw(`<p class="empty">No drafts yet. <a href="` + CreatePath + `">Write one</a>.</p>`)
		}
		for _, post := range drafts {
			p.raw(`<article class="post"><h2>`)
			p.text(post.Title)
			if post.IsDraft() {
				p.raw(` <span class="badge">Draft</span>`)
			}
			p.raw(`</h2>`)
			if post.Author != nil {
				p.raw(`<small>By `)
				p.text(authorName(post.Author))
				p.raw(`</small>`)
			}
			if post.Content != nil {
				draftContent(p, *post.Content)
			}
			p.raw(`</article>`)
		}
		p.raw(`</div>`)
	})
}

func authorName(author *models.Author) string {
	if author.Name != "" {
		return author.Name
	}
	return author.Email
}

// draftContent renders short drafts in full and folds long ones behind an
// excerpt.
func draftContent(p *pageWriter, content string) {
	excerpt := markdown.Excerpt(content, excerptChars)
	if excerpt == strings.Join(strings.Fields(content), " ") {
		p.raw(`<div class="content">`)
		p.raw(string(markdown.ToHTML(content)))
		p.raw(`</div>`)
		return
	}

	p.raw(`<p class="excerpt">`)
	p.text(excerpt)
	p.raw(`</p><details><summary>Read draft</summary><div class="content">`)
	p.raw(string(markdown.ToHTML(content)))
	p.raw(`</div></details>`)
}
