package server

import (
	"net/http"

	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/rs/zerolog"
)

// LandingPageData contains data for rendering a role landing page
type LandingPageData struct {
	AppName   string
	Name      string
	Role      string
	LogoutURL string
}

// LandingPageHandler serves a role landing page. Users the router would send elsewhere are
// redirected there instead, so a spectator can't open /admin by typing it.
func (s *Server) LandingPageHandler(destination string) http.HandlerFunc {
	tmpl := mustParseTemplate("landing.html")

	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		session, _ := sessionFromContext(r.Context())

		snapshot, err := s.sessionSnapshot(r.Context(), session)
		if err != nil {
			logger.Err(err).Msg("Failed to resolve session")
			http.Error(w, "Failed to resolve session", http.StatusInternalServerError)
			return
		}

		action := s.router.Decide(snapshot)
		if !action.IsNavigate() {
			redirectSuccess(w, r, RouteAuthRedirect)
			return
		}
		if action.Path != destination {
			logger.Debug().Str("requested", destination).Str("path", action.Path).Msg("Landing page not allowed for user")
			redirectSuccess(w, r, action.Path)
			return
		}

		profile := routing.ParseProfile(snapshot.User.Metadata)
		data := LandingPageData{
			AppName:   s.config.GetAppName(),
			Name:      metadataString(snapshot.User.Metadata, "fullName", session.Name),
			Role:      roleLabel(profile.Role),
			LogoutURL: RouteAuthLogout,
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			logger.Err(err).Msg("Failed to render landing template")
		}
	}
}
