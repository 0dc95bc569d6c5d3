package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/rs/zerolog"
)

// httpNavigator records the navigation requested by the runner so the handler can finish the
// response (cookies, session cleanup) before redirecting
type httpNavigator struct {
	path      string
	navigated bool
}

func (n *httpNavigator) Navigate(_ context.Context, path string, _ routing.NavigateOptions) {
	// A redirect response never stays in the browser history, so every navigation replaces
	n.path = path
	n.navigated = true
}

// WaitingPageData contains data for rendering the waiting page
type WaitingPageData struct {
	AppName   string
	PollURL   string
	PollEvery string
}

// PostAuthRedirectHandler sends the user wherever the router decides for their session.
// While the profile is still loading it shows a waiting page that polls this endpoint.
func (s *Server) PostAuthRedirectHandler() http.HandlerFunc {
	waitingTmpl := mustParseTemplate("waiting.html")

	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		snapshot, session, err := s.requestSnapshot(w, r)
		if err != nil {
			logger.Err(err).Msg("Failed to resolve session")
			http.Error(w, "Failed to resolve session", http.StatusInternalServerError)
			return
		}

		opts := []routing.RunnerOption{
			routing.WithResolveTimeout(s.config.GetResolveTimeout()),
			routing.WithClock(s.now),
		}
		if !session.CreatedAt.IsZero() {
			opts = append(opts, routing.WithPendingSince(session.CreatedAt))
		}

		nav := &httpNavigator{}
		action := routing.NewRunner(s.router, nav, opts...).Evaluate(r.Context(), snapshot)

		if nav.navigated {
			if action.Reason == routing.ReasonResolveTimeout {
				// The session can't recover, make the user log in again
				logger.Warn().Str("session_id", session.ID).Msg("Profile never loaded, dropping session")
				if err := s.loginSessions.Delete(r.Context(), session.ID); err != nil {
					logger.Err(err).Msg("Failed to delete login session")
				}
				s.clearLoginSessionCookie(w, r)
			}
			logger.Debug().Str("path", nav.path).Str("reason", string(action.Reason)).Msg("Post-auth redirect")
			redirectSuccess(w, r, nav.path)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		if isHTMXRequest(r) {
			// Still waiting, htmx polls again
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		data := WaitingPageData{
			AppName:   s.config.GetAppName(),
			PollURL:   RouteAuthRedirect,
			PollEvery: "1s",
		}
		if err := waitingTmpl.Execute(w, data); err != nil {
			logger.Err(err).Msg("Failed to render waiting template")
		}
	}
}
