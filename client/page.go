package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"drafts-api/models"
)

const (
	FailedAlert  = "Failed to create post. Please try again."
	GenericAlert = "An error occurred. Please try again."
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrIncompleteForm   = errors.New("title and content are required")
)

// Navigator moves the user to another route.
type Navigator interface {
	Push(ctx context.Context, route string) error
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

type View int

const (
	ViewLoading View = iota
	ViewAccessDenied
	ViewForm
)

// AuthoringPage holds the state of the new draft form.
type AuthoringPage struct {
	client    *Client
	navigator Navigator
	alerter   Alerter
	logger    *log.Logger

	state   models.SessionState
	title   string
	content string
}

func NewAuthoringPage(c *Client, navigator Navigator, alerter Alerter, logger *log.Logger) *AuthoringPage {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthoringPage{
		client:    c,
		navigator: navigator,
		alerter:   alerter,
		logger:    logger,
		state:     models.SessionState{Status: models.StatusLoading},
	}
}

// Load resolves the session. On failure the page stays loading.
func (p *AuthoringPage) Load(ctx context.Context) error {
	fetcher := SessionFetcher{Client: p.client}
	state, err := fetcher.Fetch(ctx)
	p.state = state
	return err
}

func (p *AuthoringPage) State() models.SessionState { return p.state }

func (p *AuthoringPage) View() View {
	switch p.state.Status {
	case models.StatusAuthenticated:
		return ViewForm
	case models.StatusUnauthenticated:
		return ViewAccessDenied
	default:
		return ViewLoading
	}
}

func (p *AuthoringPage) SetTitle(title string)     { p.title = title }
func (p *AuthoringPage) SetContent(content string) { p.content = content }
func (p *AuthoringPage) Title() string             { return p.title }
func (p *AuthoringPage) Content() string           { return p.content }

// CanSubmit mirrors the disabled state of the submit control.
func (p *AuthoringPage) CanSubmit() bool {
	return p.title != "" && p.content != ""
}

// SignIn sends the user to the sign-in flow.
func (p *AuthoringPage) SignIn(ctx context.Context) error {
	return p.navigator.Push(ctx, SignInPath+"?callbackUrl=%2Fcreate")
}

// Render writes a plain text version of the current view.
func (p *AuthoringPage) Render(w io.Writer) error {
	var err error
	switch p.View() {
	case ViewLoading:
		_, err = fmt.Fprintln(w, "Loading...")
	case ViewAccessDenied:
		_, err = fmt.Fprintln(w, "Access Denied\nYou need to be signed in to create a post.")
	case ViewForm:
		_, err = fmt.Fprintf(w, "New Draft\nSigned in as: %s\n", p.state.Data.DisplayName())
	}
	return err
}

// Submit posts the form. Success navigates to the drafts listing; failures
// are logged and alerted and the entered values are kept.
func (p *AuthoringPage) Submit(ctx context.Context) error {
	if p.View() != ViewForm {
		return ErrNotAuthenticated
	}
	if !p.CanSubmit() {
		return ErrIncompleteForm
	}

	resp, err := p.client.CreatePost(ctx, p.title, p.content)
	if err != nil {
		p.logger.Printf("Error creating post: %v", err)
		p.alerter.Alert(GenericAlert)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return p.navigator.Push(ctx, DraftsPath)
	}

	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr.Body); err != nil {
		p.logger.Printf("Error creating post: %v", err)
		p.alerter.Alert(GenericAlert)
		return err
	}

	p.logger.Printf("Failed to create post: %v", apiErr.Body)
	p.alerter.Alert(FailedAlert)
	return apiErr
}
