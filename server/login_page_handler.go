package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-event-portal/server/authflowrepo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName  string
	Error    string
	LoginURL string
}

// LoginPageUIHandler displays the login page
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		loginURL := RouteAuthLogin
		if returnTo := r.URL.Query().Get("return_to"); returnTo != "" {
			loginURL += "?return_to=" + url.QueryEscape(returnTo)
		}
		data := LoginPageData{
			AppName:  s.config.GetAppName(),
			Error:    r.URL.Query().Get("error"),
			LoginURL: loginURL,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render login template")
		}
	}
}

// LoginStartHandler sends the browser to the identity provider with a fresh state, nonce and PKCE verifier
func (s *Server) LoginStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(32)
		nonce := generateRandomString(32)
		verifier := oauth2.GenerateVerifier()

		err := s.authFlows.Upsert(state, &authflowrepo.AuthFlowState{
			CodeVerifier: verifier,
			Nonce:        nonce,
			ReturnURL:    safeReturnURL(r.URL.Query().Get("return_to")),
			CreatedAt:    s.now(),
		})
		if err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to store login state")
			http.Error(w, "Failed to start login", http.StatusInternalServerError)
			return
		}

		redirectSuccess(w, r, s.auth.AuthCodeURL(state, nonce, verifier))
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(loggedInSessionID); err == nil && cookie.Value != "" {
			if err := s.loginSessions.Delete(r.Context(), cookie.Value); err != nil {
				zerolog.Ctx(r.Context()).Err(err).Msg("Failed to delete login session")
			}
		}
		s.clearLoginSessionCookie(w, r)
		redirectSuccess(w, r, RouteIndex)
	}
}

// authFlowExpired reports whether a login attempt took too long to come back
func (s *Server) authFlowExpired(state *authflowrepo.AuthFlowState) bool {
	timeout := s.config.GetAuthFlowTimeout()
	if timeout <= 0 {
		return false
	}
	expired := s.now().Sub(state.CreatedAt) > timeout
	if expired {
		log.Debug().Dur("age", s.now().Sub(state.CreatedAt)).Msg("Login attempt expired")
	}
	return expired
}

func sessionMaxAgeSeconds(d time.Duration) int {
	return int(d.Seconds())
}
