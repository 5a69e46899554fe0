package web

import (
	"github.com/a-h/templ"
)

// SignInForm holds what the sign-in page echoes back.
type SignInForm struct {
	Email       string
	CallbackURL string
	Error       string
}

func SignInPage(form SignInForm) templ.Component {
	return Layout(LayoutOptions{Title: "Sign In"}, component(func(p *pageWriter) {
		p.raw(`<div><h1>Sign In</h1>`)
		if form.Error != "" {
			p.raw(`<p class="error">`)
			p.text(form.Error)
			p.raw(`</p>`)
		}
		p.raw(`<form method="post" action="` + SignInPath + `">`)
		p.raw(`<input type="hidden" name="callbackUrl" value="`)
		p.text(form.CallbackURL)
		p.raw(`"><input autofocus name="email" placeholder="Email" type="email" value="`)
		p.text(form.Email)
		p.raw(`"><input name="password" placeholder="Password" type="password">`)
		p.raw(`<input type="submit" value="Sign In"></form></div>`)
	}))
}
