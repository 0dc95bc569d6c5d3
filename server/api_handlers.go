package server

import (
	"net/http"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/rs/zerolog"
)

// RouteResponse is the router's decision as returned by the JSON API
type RouteResponse struct {
	Action  string `json:"action"` // "navigate" or "none"
	Path    string `json:"path,omitempty"`
	Replace bool   `json:"replace"`
	Reason  string `json:"reason"`
}

func newRouteResponse(action routing.Action) RouteResponse {
	resp := RouteResponse{
		Action:  "none",
		Path:    action.Path,
		Replace: action.Replace,
		Reason:  string(action.Reason),
	}
	if action.IsNavigate() {
		resp.Action = "navigate"
	}
	return resp
}

// APIRouteHandler returns where a client holding a backend access token should go.
// Token claims are the starting point, the profile store wins where both have a key.
func (s *Server) APIRouteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identityFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing identity")
			return
		}

		snapshot := ident.Snapshot()
		user, err := s.users.Get(r.Context(), ident.Subject)
		switch {
		case err == nil:
			for k, v := range user.Metadata {
				snapshot.User.Metadata[k] = v
			}
		case errors.Is(err, errors.ErrUserNotFound):
			// Only the token's claims are known
		default:
			zerolog.Ctx(r.Context()).Err(err).Str("user_id", ident.Subject).Msg("Failed to load user")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to load profile")
			return
		}

		writeJSON(w, http.StatusOK, newRouteResponse(s.router.Decide(snapshot)))
	}
}
