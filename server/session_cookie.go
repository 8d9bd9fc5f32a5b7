package server

import (
	"net/http"

	"github.com/jrsteele09/go-oauth-client/sessions"
)

// sessionCookieName is the name of the cookie binding a browser to its
// server-held session
const sessionCookieName = "oauth_session_id"

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// currentSession resolves the request's session from its cookie. A
// missing cookie or unknown session id yields an empty session.
func (s *Server) currentSession(r *http.Request) sessions.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return sessions.Session{}
	}

	sess, err := s.store.Get(cookie.Value)
	if err != nil {
		return sessions.Session{}
	}
	return sess
}

// ensureSession resolves the request's session, creating a fresh one
// (and issuing its cookie) when the browser has none yet.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) sessions.Session {
	sess := s.currentSession(r)
	if sess.ID == "" {
		sess = sessions.New()
		s.setSessionCookie(w, r, sess.ID)
	}
	return sess
}
