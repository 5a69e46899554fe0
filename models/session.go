package models

import "time"

type SessionUser struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Session is the server-side record behind a session cookie.
type Session struct {
	ID      string      `json:"-"`
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// DisplayName prefers the email and falls back to the name.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.User.Email != "" {
		return s.User.Email
	}
	return s.User.Name
}

// SessionStatus mirrors what a page knows about the visitor's session.
type SessionStatus string

const (
	StatusLoading         SessionStatus = "loading"
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusAuthenticated   SessionStatus = "authenticated"
)

type SessionState struct {
	Status SessionStatus
	Data   *Session
}

// StateOf derives a resolved state from a session lookup result.
func StateOf(session *Session) SessionState {
	if session == nil || session.User.Email == "" {
		return SessionState{Status: StatusUnauthenticated}
	}
	return SessionState{Status: StatusAuthenticated, Data: session}
}
