package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
	"github.com/rs/zerolog"
)

func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		loginPath := s.router.Paths().Login

		// r.FormValue works for both query params and POST form data
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		if errorParam != "" {
			logger.Warn().Str("error", errorParam).Str("description", r.FormValue("error_description")).Msg("Identity provider returned an error")
			redirectWithError(w, r, loginPath, "Login failed")
			return
		}

		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		authState, err := s.authFlows.Take(state)
		if err != nil || s.authFlowExpired(authState) {
			redirectWithError(w, r, loginPath, "Login expired, please try again")
			return
		}

		ident, err := s.auth.Exchange(r.Context(), code, authState.CodeVerifier, authState.Nonce)
		if err != nil {
			logger.Err(err).Msg("Code exchange failed")
			redirectWithError(w, r, loginPath, "Login failed")
			return
		}

		now := s.now()
		maxAge := s.config.GetMaxSessionAge()
		session := loginsession.Session{
			ID:        uuid.NewString(),
			UserID:    ident.Subject,
			Email:     ident.Email,
			Name:      ident.Name,
			Loaded:    false,
			ExpiresAt: now.Add(maxAge),
			CreatedAt: now,
		}
		if ident.Token != nil {
			session.AccessToken = ident.Token.AccessToken
			session.RefreshToken = ident.Token.RefreshToken
		}

		if err := s.loginSessions.Upsert(r.Context(), session); err != nil {
			logger.Err(err).Msg("Failed to create session")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		s.SetLoginSessionCookie(w, session.ID, r, sessionMaxAgeSeconds(maxAge))

		// The router shows a waiting page until the profile is loaded
		s.goBackground(func() { s.loadProfile(session.ID, ident) })

		logger.Info().Str("user_id", ident.Subject).Msg("User logged in")
		redirectSuccess(w, r, safeReturnURL(authState.ReturnURL))
	}
}
