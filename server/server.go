package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/splashgate/splashgate/idp"
	"github.com/splashgate/splashgate/idp/authstate"
	"github.com/splashgate/splashgate/internal/config"
	"github.com/splashgate/splashgate/internal/metrics"
	"github.com/splashgate/splashgate/portal"
	"github.com/splashgate/splashgate/sessions"
)

// IdentityProvider is the slice of the OIDC client the handlers use.
// Declared here so tests can swap in a fake without a live provider.
type IdentityProvider interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (idp.Identity, error)
}

// Notifier is the best-effort outbound call to the access controller.
type Notifier interface {
	Provision(ctx context.Context, identity idp.Identity) error
}

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	sessions   sessions.Repo
	correlator *portal.Correlator
	flows      authstate.Repo
	idp        IdentityProvider
	notifier   Notifier
	metrics    metrics.Recorder
}

func New(config config.Config, sessionRepo sessions.Repo, flowRepo authstate.Repo, provider IdentityProvider, notifier Notifier, recorder metrics.Recorder) *Server {
	if recorder == nil {
		recorder = metrics.NewNoopRecorder()
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     config,
		sessions:   sessionRepo,
		correlator: portal.NewCorrelator(sessionRepo),
		flows:      flowRepo,
		idp:        provider,
		notifier:   notifier,
		metrics:    recorder,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
