package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/auth"
	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// IndexHandler renders the login-or-home choice for the session.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if sess.Authenticated() {
			fmt.Fprintf(w, `<p><a href="%s">Home</a> | <a href="%s">Activities</a> | <a href="%s">Log out</a></p>`,
				RouteHome, RouteActivities, RouteLogout)
			return
		}
		fmt.Fprintf(w, `<p><a href="%s">Log in with GitLab</a></p>`, RouteLogin)
	}
}

// LoginHandler starts a login attempt and redirects the browser to the
// provider's authorization endpoint.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.ensureSession(w, r)

		redirectURL, _, err := s.flow.BeginLogin(sess)
		if err != nil {
			log.Error().Err(err).Msg("failed to begin login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.metrics.RecordLoginStarted()
		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
	}
}

// CallbackHandler finishes the authorization flow: state check, code
// exchange, session rotation. Recoverable outcomes redirect back to the
// login entry point; upstream failures surface their originating status.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		result, err := s.flow.HandleCallback(r.Context(), code, state, sess)
		if err != nil {
			s.metrics.RecordCallback(metrics.OutcomeError)
			status := apperrors.HTTPStatus(err, http.StatusInternalServerError)
			log.Error().Err(err).Int("status", status).Msg("callback failed")
			http.Error(w, http.StatusText(status), status)
			return
		}

		switch result.Status {
		case auth.StatusLoggedIn:
			s.metrics.RecordCallback(metrics.OutcomeLoggedIn)
			s.setSessionCookie(w, r, result.Session.ID)
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		case auth.StatusStateMismatch:
			s.metrics.RecordCallback(metrics.OutcomeStateMismatch)
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		case auth.StatusProviderDenied:
			s.metrics.RecordCallback(metrics.OutcomeProviderDenied)
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		}
	}
}

// HomeHandler fetches the authenticated user's profile and remembers the
// provider user id on the session for the activities feed.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		profile, err := s.gitlab.FetchProfile(r.Context(), sess.AccessToken)
		if err != nil {
			s.upstreamError(w, err, "fetching profile")
			return
		}

		if sess.UserID != profile.ID {
			sess.UserID = profile.ID
			if err := s.store.Put(sess); err != nil {
				log.Error().Err(err).Msg("failed to store user id")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, profile)
	}
}

// ActivitiesHandler fetches the user's activity feed. The provider user
// id is resolved via a profile fetch when this session has not seen one.
func (s *Server) ActivitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		if sess.UserID == 0 {
			updated, err := s.resolveUserID(r, sess)
			if err != nil {
				s.upstreamError(w, err, "resolving user id")
				return
			}
			sess = updated
		}

		activities, err := s.gitlab.FetchActivities(r.Context(), sess.AccessToken, sess.UserID)
		if err != nil {
			s.upstreamError(w, err, "fetching activities")
			return
		}

		writeJSON(w, activities)
	}
}

// LogoutHandler destroys the session and clears its cookie. Safe to call
// when already logged out.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		if err := s.flow.Logout(sess); err != nil {
			log.Error().Err(err).Msg("failed to destroy session")
		}

		s.clearSessionCookie(w, r)
		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

func (s *Server) resolveUserID(r *http.Request, sess sessions.Session) (sessions.Session, error) {
	profile, err := s.gitlab.FetchProfile(r.Context(), sess.AccessToken)
	if err != nil {
		return sessions.Session{}, err
	}

	sess.UserID = profile.ID
	if err := s.store.Put(sess); err != nil {
		return sessions.Session{}, apperrors.Wrapf(err, "storing user id")
	}
	return sess, nil
}

// upstreamError surfaces a provider failure with its originating status
// where one is known.
func (s *Server) upstreamError(w http.ResponseWriter, err error, msg string) {
	status := apperrors.HTTPStatus(err, http.StatusInternalServerError)
	log.Error().Err(err).Int("status", status).Msg(msg)
	http.Error(w, http.StatusText(status), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
