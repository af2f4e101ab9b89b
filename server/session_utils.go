package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/splashgate/splashgate/internal/errors"
	"github.com/splashgate/splashgate/sessions"
)

const (
	// portalSessionCookie is the name of the cookie carrying the opaque
	// session identifier
	portalSessionCookie = "portal_session_id"

	// sessionCookieMaxAge bounds the cookie lifetime; the server-side record
	// is the source of truth and expires on its own.
	sessionCookieMaxAge = 24 * time.Hour
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, sessionID string, r *http.Request, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     portalSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// ensureSession returns the request's session, creating and persisting a
// fresh one when the cookie is absent or points at nothing. The write
// completes before any handler issues a redirect, so the pending grant a
// splash request captures is durable by the time the browser leaves for the
// identity provider.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (sessions.Session, error) {
	if cookie, err := r.Cookie(portalSessionCookie); err == nil && cookie.Value != "" {
		session, err := s.sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			return sessions.Session{}, err
		}
	}

	session := sessions.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Upsert(r.Context(), session); err != nil {
		return sessions.Session{}, err
	}
	s.SetSessionCookie(w, session.ID, r, int(sessionCookieMaxAge.Seconds()))
	return session, nil
}

// currentSession returns the session for the request cookie without creating
// one.
func (s *Server) currentSession(r *http.Request) (sessions.Session, bool) {
	cookie, err := r.Cookie(portalSessionCookie)
	if err != nil || cookie.Value == "" {
		return sessions.Session{}, false
	}
	session, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return sessions.Session{}, false
	}
	return session, true
}
