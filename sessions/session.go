package sessions

import "github.com/google/uuid"

// Session is the server-held state for one browser. The access token only
// ever lives here, tied to the session lifetime.
type Session struct {
	// Core identity, issued to the browser as the cookie value
	ID string

	// Pending CSRF state for the in-flight login attempt, overwritten
	// whenever a new attempt starts
	State string

	// Provider bearer token, set only after a successful code exchange
	AccessToken string

	// Provider user id, set after the first profile fetch
	UserID int64
}

// New creates an empty session with a fresh identity.
func New() Session {
	return Session{ID: uuid.NewString()}
}

// Authenticated reports whether the session carries a bound access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

type Repo interface {
	Get(sessionID string) (Session, error)
	Put(session Session) error
	Delete(sessionID string) error
}
