package server

import (
	"net/http"

	"github.com/splashgate/splashgate/portal"
)

// SplashHandler serves the root route the access controller redirects
// clients to. The correlator decides the whole response: capture-and-prompt
// for unauthenticated visitors, consume-and-redirect when a grant is
// pending, plain status otherwise.
func (s *Server) SplashHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.ensureSession(w, r)
		if err != nil {
			s.serverError(w, r, err)
			return
		}

		decision, target, err := s.correlator.Decide(r.Context(), session.ID, session.Authenticated, r.URL.Query())
		if err != nil {
			s.serverError(w, r, err)
			return
		}

		switch decision {
		case portal.RedirectToGrant:
			s.metrics.GrantIssued()
			http.Redirect(w, r, target, http.StatusFound)
		case portal.ShowStatus:
			s.renderStatus(w, session.Identity)
		default:
			s.renderSplash(w)
		}
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
