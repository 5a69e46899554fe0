package web

import (
	"drafts-api/models"

	"github.com/a-h/templ"
)

const (
	CreatePath           = "/create"
	DraftsPath           = "/drafts"
	SignInPath           = "/api/auth/signin"
	createDeniedMessage  = "You need to be signed in to create a post."
	loadingRetrySeconds  = 2
	createPostAlert      = "Failed to create post. Please try again."
	createPostErrorAlert = "An error occurred. Please try again."
)

// createFormScript posts the form as JSON with the session cookie, then
// moves to the drafts listing or alerts. The form keeps its values on failure.
const createFormScript = `
(function () {
  var form = document.getElementById("create-form");
  var title = form.elements.title;
  var content = form.elements.content;
  var submit = form.elements.submit;
  function sync() { submit.disabled = !title.value || !content.value; }
  title.addEventListener("input", sync);
  content.addEventListener("input", sync);
  sync();
  form.addEventListener("submit", async function (e) {
    e.preventDefault();
    try {
      var response = await fetch("/api/post", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ title: title.value, content: content.value }),
        credentials: "include"
      });
      if (response.ok) {
        window.location.assign("` + DraftsPath + `");
      } else {
        var errorData = await response.json();
        console.error("Failed to create post:", errorData);
        alert("` + createPostAlert + `");
      }
    } catch (error) {
      console.error("Error creating post:", error);
      alert("` + createPostErrorAlert + `");
    }
  });
})();
`

// CreatePage renders the authoring page for a session state.
func CreatePage(state models.SessionState) templ.Component {
	switch state.Status {
	case models.StatusAuthenticated:
		return Layout(LayoutOptions{Title: "New Draft", Session: state.Data}, CreateForm(state.Data))
	case models.StatusUnauthenticated:
		return Layout(LayoutOptions{Title: "Access Denied"}, AccessDenied(createDeniedMessage, CreatePath))
	default:
		return Layout(LayoutOptions{Title: "Loading", RefreshSeconds: loadingRetrySeconds}, Loading())
	}
}

// CreateForm is the two-field draft form. Submit stays disabled until both
// fields hold text.
func CreateForm(session *models.Session) templ.Component {
	return component(func(p *pageWriter) {
		p.raw(`<div><form id="create-form"><h1>New Draft</h1><p>Signed in as: `)
		p.text(session.DisplayName())
		p.raw(`</p>`)
		p.raw(`<input autofocus name="title" placeholder="Title" type="text" value="">`)
		p.raw(`<textarea cols="50" name="content" placeholder="Content" rows="8"></textarea>`)
		p.raw(`<input disabled name="submit" type="submit" value="Create">`)
		p.raw(`<a class="back" href="/">or Cancel</a>`)
		p.raw(`</form><script>`)
		p.raw(createFormScript)
		p.raw(`</script></div>`)
	})
}
