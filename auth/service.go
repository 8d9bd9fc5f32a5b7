// Package auth implements the authorization flow state machine: state
// generation and verification, code exchange, session binding and the
// access guard.
package auth

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-oauth-client/gitlab"
	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/sessions"
)

// Provider is the subset of the provider client the flow depends on.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// Status classifies the outcome of a handled callback.
type Status int

const (
	// StatusLoggedIn: state matched and the exchange succeeded; the
	// session identity was rotated and the token bound to it.
	StatusLoggedIn Status = iota

	// StatusStateMismatch: the returned state did not match the pending
	// one. Possible CSRF or a replayed link; the caller redirects back
	// to the login entry point.
	StatusStateMismatch

	// StatusProviderDenied: the token endpoint answered with an OAuth
	// error payload. Recoverable; the caller redirects to login.
	StatusProviderDenied
)

// Result is the typed outcome of HandleCallback. Session is the session
// to continue with: the freshly regenerated one on StatusLoggedIn, the
// unchanged input otherwise.
type Result struct {
	Status  Status
	Session sessions.Session
}

// Service drives the authorization flow against a provider and a
// session store.
type Service struct {
	provider Provider
	store    sessions.Repo
}

func NewService(provider Provider, store sessions.Repo) *Service {
	return &Service{provider: provider, store: store}
}

// BeginLogin starts a login attempt: it generates a fresh state token,
// writes it into the session (replacing any prior pending state — only
// one attempt is in flight per session) and returns the provider
// authorization URL to redirect the browser to.
func (s *Service) BeginLogin(sess sessions.Session) (string, sessions.Session, error) {
	sess.State = NewStateToken()
	if err := s.store.Put(sess); err != nil {
		return "", sessions.Session{}, apperrors.Wrapf(err, "storing login state")
	}
	return s.provider.AuthCodeURL(sess.State), sess, nil
}

// HandleCallback validates the returned state, exchanges the code and
// binds the resulting token to a regenerated session.
//
// A mismatched state or a provider-reported denial is a recoverable
// outcome, not an error. Upstream HTTP failures propagate as errors
// carrying the originating status; the session stays unbound.
func (s *Service) HandleCallback(ctx context.Context, code, state string, sess sessions.Session) (Result, error) {
	if state == "" || sess.State == "" || state != sess.State {
		return Result{Status: StatusStateMismatch, Session: sess}, nil
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		var authErr *gitlab.AuthError
		if errors.As(err, &authErr) {
			return Result{Status: StatusProviderDenied, Session: sess}, nil
		}
		return Result{}, apperrors.Wrapf(err, "exchanging authorization code")
	}

	// Rotate the session identity before binding the token, so a
	// pre-auth session id fixed by an attacker never becomes
	// authenticated. Only the token is carried forward.
	fresh := sessions.New()
	fresh.AccessToken = token

	if err := s.store.Delete(sess.ID); err != nil {
		return Result{}, apperrors.Wrapf(err, "dropping pre-auth session")
	}
	if err := s.store.Put(fresh); err != nil {
		return Result{}, apperrors.Wrapf(err, "storing authenticated session")
	}

	return Result{Status: StatusLoggedIn, Session: fresh}, nil
}

// Authorize gates access to token-backed resources. An unauthenticated
// session yields ErrNotFound: the boundary surfaces it as a plain 404 so
// guarded endpoints are indistinguishable from missing routes.
func (s *Service) Authorize(sess sessions.Session) error {
	if !sess.Authenticated() {
		return apperrors.ErrNotFound
	}
	return nil
}

// Logout destroys the session unconditionally. Safe to call on a
// session that was never stored.
func (s *Service) Logout(sess sessions.Session) error {
	if sess.ID == "" {
		return nil
	}
	return s.store.Delete(sess.ID)
}
