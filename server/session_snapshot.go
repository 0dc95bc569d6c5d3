package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
)

// requestSnapshot is the identity provider boundary for browser requests: cookie, then session,
// then the profile store. A missing or expired session is a loaded, signed out snapshot.
func (s *Server) requestSnapshot(w http.ResponseWriter, r *http.Request) (routing.Snapshot, loginsession.Session, error) {
	session, err := s.currentSession(r)
	if errors.Is(err, errors.ErrSessionNotFound) || errors.Is(err, errors.ErrSessionExpired) {
		if _, cookieErr := r.Cookie(loggedInSessionID); cookieErr == nil {
			s.clearLoginSessionCookie(w, r)
		}
		return routing.Snapshot{Loaded: true}, loginsession.Session{}, nil
	}
	if err != nil {
		return routing.Snapshot{}, loginsession.Session{}, errors.Wrapf(err, "load session")
	}

	snapshot, err := s.sessionSnapshot(r.Context(), session)
	return snapshot, session, err
}

// sessionSnapshot builds the snapshot for an existing session
func (s *Server) sessionSnapshot(ctx context.Context, session loginsession.Session) (routing.Snapshot, error) {
	if !session.Loaded {
		return routing.Snapshot{Loaded: false}, nil
	}

	user, err := s.users.Get(ctx, session.UserID)
	if errors.Is(err, errors.ErrUserNotFound) {
		// Signed in but the store lost the profile, start onboarding again
		return routing.Snapshot{Loaded: true, User: &routing.UserRecord{ID: session.UserID}}, nil
	}
	if err != nil {
		return routing.Snapshot{}, errors.Wrapf(err, "load profile %s", session.UserID)
	}
	return routing.Snapshot{Loaded: true, User: user.Record()}, nil
}
