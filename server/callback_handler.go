package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/splashgate/splashgate/internal/errors"
	"github.com/splashgate/splashgate/portal"
)

// notifyTimeout bounds the best-effort access-controller call so a slow
// controller cannot stall the callback response.
const notifyTimeout = 5 * time.Second

// CallbackHandler is the identity-provider return endpoint. Validation of
// the response is delegated to the OIDC client; a failure there is fatal to
// the request and leaves the pending grant untouched for a retried login.
// On success the session becomes authenticated, the controller is notified
// best-effort, and the redirect decision runs against the now-authenticated
// session.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")

		if errParam := r.URL.Query().Get("error"); errParam != "" {
			errDesc := r.URL.Query().Get("error_description")
			log.Warn().Str("error", errParam).Str("description", errDesc).Msg("identity provider returned an error")
			s.authError(w, http.StatusBadRequest, "Authentication failed")
			return
		}

		if code == "" || state == "" {
			s.authError(w, http.StatusBadRequest, "Authentication failed")
			return
		}

		flow, err := s.flows.Get(state)
		if err != nil || flow == nil {
			s.authError(w, http.StatusBadRequest, "Authentication failed")
			return
		}

		// State is single-use
		if err := s.flows.Delete(state); err != nil {
			s.serverError(w, r, err)
			return
		}

		session, err := s.sessions.Get(r.Context(), flow.SessionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) {
				s.authError(w, http.StatusBadRequest, "Login session expired")
				return
			}
			s.serverError(w, r, err)
			return
		}

		identity, err := s.idp.Exchange(r.Context(), code, flow.Nonce)
		if err != nil {
			log.Warn().Err(err).Msg("identity provider validation failed")
			s.authError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}

		session.Authenticated = true
		session.Identity = identity
		if err := s.sessions.Upsert(r.Context(), session); err != nil {
			s.serverError(w, r, fmt.Errorf("[CallbackHandler] persist session: %w", err))
			return
		}
		s.SetSessionCookie(w, session.ID, r, int(sessionCookieMaxAge.Seconds()))
		s.metrics.LoginCompleted()

		// Best-effort: failure is logged and must not block or alter the
		// redirect decision.
		notifyCtx, cancel := context.WithTimeout(r.Context(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Provision(notifyCtx, identity); err != nil {
			s.metrics.NotifierFailure()
			log.Warn().Err(err).Str("email", identity.Email).Msg("access-controller notification failed")
		}

		decision, target, err := s.correlator.Decide(r.Context(), session.ID, true, nil)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if decision == portal.RedirectToGrant {
			s.metrics.GrantIssued()
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		s.renderStatus(w, identity)
	}
}
