package web

import (
	"context"
	"io"
	"strconv"

	"drafts-api/models"

	"github.com/a-h/templ"
)

// pageWriter keeps the first write error so components can be written
// as straight-line markup.
type pageWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) render(c templ.Component) {
	if p.err == nil && c != nil {
		p.err = c.Render(p.ctx, p.w)
	}
}

func component(fn func(p *pageWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}

// LayoutOptions tweak the document shell.
type LayoutOptions struct {
	Title          string
	RefreshSeconds int
	Session        *models.Session
	ExtraCSS       string
}

const baseCSS = `
body { font-family: system-ui, sans-serif; margin: 0; color: #222; }
header { padding: 1rem 2rem; border-bottom: 1px solid #eee; display: flex; gap: 1rem; align-items: center; }
header .right { margin-left: auto; }
main { padding: 3rem; display: flex; justify-content: center; }
main > div { width: 100%; max-width: 48rem; }
input[type="text"], input[type="email"], input[type="password"], textarea {
  width: 100%; padding: 0.5rem; margin: 0.5rem 0; border-radius: 0.25rem;
  border: 0.125rem solid rgba(0, 0, 0, 0.2); box-sizing: border-box;
}
input[type="submit"], button { background: #ececec; border: 0; padding: 1rem 2rem; cursor: pointer; }
input[type="submit"]:disabled { cursor: not-allowed; opacity: 0.6; }
.back { margin-left: 1rem; }
.error { color: #b00020; }
.post { padding: 1.5rem 0; border-bottom: 1px solid #eee; }
.badge { font-size: 0.75rem; background: #fff3cd; padding: 0.125rem 0.5rem; border-radius: 0.25rem; }
.excerpt { color: #555; }
`

// Layout wraps a page body in the shared document shell and navigation.
func Layout(opts LayoutOptions, body templ.Component) templ.Component {
	return component(func(p *pageWriter) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if opts.RefreshSeconds > 0 {
			p.raw(`<meta http-equiv="refresh" content="` + strconv.Itoa(opts.RefreshSeconds) + `">`)
		}
		title := "Drafts"
		if opts.Title != "" {
			title = opts.Title + " | Drafts"
		}
		p.raw(`<title>`)
		p.text(title)
		p.raw(`</title><style>`)
		p.raw(baseCSS)
		p.raw(opts.ExtraCSS)
		p.raw(`</style></head><body>`)

		p.raw(`<header><a href="/">Home</a>`)
		if opts.Session != nil {
			p.raw(`<a href="/drafts">My drafts</a><a href="/create">New post</a>`)
			p.raw(`<form class="right" method="post" action="/api/auth/signout"><span>`)
			p.text(opts.Session.DisplayName())
			p.raw(`</span> <button type="submit">Log out</button></form>`)
		} else {
			p.raw(`<a class="right" href="/api/auth/signin">Log in</a>`)
		}
		p.raw(`</header><main>`)
		p.render(body)
		p.raw(`</main></body></html>`)
	})
}

// Loading is the placeholder shown while the session is unresolved.
func Loading() templ.Component {
	return component(func(p *pageWriter) {
		p.raw(`<div class="loading">Loading...</div>`)
	})
}

// AccessDenied asks the visitor to sign in and come back to callbackURL.
func AccessDenied(message, callbackURL string) templ.Component {
	return component(func(p *pageWriter) {
		p.raw(`<div><h1>Access Denied</h1><p>`)
		p.text(message)
		p.raw(`</p><form method="get" action="/api/auth/signin">`)
		p.raw(`<input type="hidden" name="callbackUrl" value="`)
		p.text(callbackURL)
		p.raw(`"><button type="submit">Sign In</button></form></div>`)
	})
}
