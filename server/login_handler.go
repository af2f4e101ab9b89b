package server

import (
	"net/http"
	"time"

	"github.com/splashgate/splashgate/idp/authstate"
)

// LoginHandler starts the federated login round trip: mint a state/nonce
// pair, persist the flow state keyed by state, and send the browser to the
// identity provider. Grant parameters are not read here; the splash route
// captured them before the user ever saw the login link.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.ensureSession(w, r)
		if err != nil {
			s.serverError(w, r, err)
			return
		}

		state := generateRandomString(32)
		nonce := generateRandomString(32)

		flow := &authstate.FlowState{
			SessionID: session.ID,
			Nonce:     nonce,
			CreatedAt: time.Now(),
		}
		if err := s.flows.Upsert(state, flow); err != nil {
			s.serverError(w, r, err)
			return
		}

		s.metrics.LoginStarted()
		http.Redirect(w, r, s.idp.AuthCodeURL(state, nonce), http.StatusFound)
	}
}

// LogoutHandler drops the server-side session and expires the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.currentSession(r); ok {
			if err := s.sessions.Delete(r.Context(), session.ID); err != nil {
				s.serverError(w, r, err)
				return
			}
		}
		s.SetSessionCookie(w, "", r, -1) // Delete cookie
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
