package server

import "net/http"

// ProfileHandler renders the authenticated identity. Unauthenticated
// visitors get sent back to the splash route.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.currentSession(r)
		if !ok || !session.Authenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.renderProfile(w, session.Identity)
	}
}
