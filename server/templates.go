package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/splashgate/splashgate/idp"
)

const contentTypeHTML = "text/html; charset=utf-8"

const splashPage = `<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
    <h1>Welcome</h1>
    <p>Sign in to get online.</p>
    <a href="/login">Login</a>
</body>
</html>
`

const statusPage = `<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
    <h1>Welcome {{.Identity.Name}}</h1>
    <p>You are connected.</p>
    <a href="/profile">Profile</a> | <a href="/logout">Logout</a>
</body>
</html>
`

const profilePage = `<!DOCTYPE html>
<html>
<head><title>Profile</title></head>
<body>
    <h1>Profile</h1>
    <ul>
        <li>Name: {{.Identity.Name}}</li>
        <li>Email: {{.Identity.Email}}</li>
        <li>Subject: {{.Identity.Subject}}</li>
    </ul>
    <a href="/">Home</a>
</body>
</html>
`

const errorPage = `<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
    <h1>{{.Message}}</h1>
    <a href="/">Home</a>
</body>
</html>
`

var (
	splashTmpl  = template.Must(template.New("splash").Parse(splashPage))
	statusTmpl  = template.Must(template.New("status").Parse(statusPage))
	profileTmpl = template.Must(template.New("profile").Parse(profilePage))
	errorTmpl   = template.Must(template.New("error").Parse(errorPage))
)

type pageData struct {
	AppName  string
	Identity idp.Identity
	Message  string
}

func (s *Server) renderSplash(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := splashTmpl.Execute(w, pageData{AppName: s.config.GetAppName()}); err != nil {
		log.Err(err).Msg("Failed to render splash page")
	}
}

func (s *Server) renderStatus(w http.ResponseWriter, identity idp.Identity) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := statusTmpl.Execute(w, pageData{AppName: s.config.GetAppName(), Identity: identity}); err != nil {
		log.Err(err).Msg("Failed to render status page")
	}
}

func (s *Server) renderProfile(w http.ResponseWriter, identity idp.Identity) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := profileTmpl.Execute(w, pageData{Identity: identity}); err != nil {
		log.Err(err).Msg("Failed to render profile page")
	}
}

// serverError logs the failure and renders a generic error page. No internal
// detail reaches the client.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.renderError(w, http.StatusInternalServerError, "Something went wrong")
}

// authError renders the authentication-failure page. The pending grant, if
// any, is left untouched so a retried login can still complete it.
func (s *Server) authError(w http.ResponseWriter, status int, message string) {
	s.renderError(w, status, message)
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := errorTmpl.Execute(w, pageData{AppName: s.config.GetAppName(), Message: message}); err != nil {
		log.Err(err).Msg("Failed to render error page")
	}
}
