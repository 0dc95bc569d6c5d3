package server

import (
	"net/http"

	"github.com/rs/zerolog"
)

// IndexPageData contains data for rendering the home page
type IndexPageData struct {
	AppName     string
	SignedIn    bool
	LoginURL    string
	ContinueURL string
	LogoutURL   string
}

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, err := s.currentSession(r)
		data := IndexPageData{
			AppName:     s.config.GetAppName(),
			SignedIn:    err == nil,
			LoginURL:    RouteAuthLogin,
			ContinueURL: RouteAuthRedirect,
			LogoutURL:   RouteAuthLogout,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render index template")
		}
	}
}

// HealthHandler reports the process is up
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "env": s.env})
	}
}
