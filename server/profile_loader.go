package server

import (
	"context"

	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/users"
	"github.com/rs/zerolog/log"
)

// loadProfile makes sure the profile store knows the user, then marks the session loaded.
// On failure the session stays unloaded and the router keeps waiting.
func (s *Server) loadProfile(sessionID string, ident *identity.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetMetadataLoadTimeout())
	defer cancel()

	logger := log.With().Str("session_id", sessionID).Str("user_id", ident.Subject).Logger()

	if err := s.syncProfile(ctx, ident); err != nil {
		logger.Err(err).Msg("Failed to load profile")
		return
	}
	if err := s.loginSessions.MarkLoaded(ctx, sessionID); err != nil {
		logger.Err(err).Msg("Failed to mark session loaded")
		return
	}
	logger.Debug().Msg("Profile loaded")
}

// syncProfile creates the user on first login, otherwise refreshes their contact details.
// Metadata asserted by the identity provider is merged over what the store holds.
func (s *Server) syncProfile(ctx context.Context, ident *identity.Identity) error {
	existing, err := s.users.Get(ctx, ident.Subject)
	if errors.Is(err, errors.ErrUserNotFound) {
		metadata := make(map[string]any, len(ident.Metadata))
		for k, v := range ident.Metadata {
			metadata[k] = v
		}
		return s.users.Upsert(ctx, &users.User{
			ID:       ident.Subject,
			Email:    ident.Email,
			Name:     ident.Name,
			Metadata: metadata,
		})
	}
	if err != nil {
		return errors.Wrapf(err, "get user %s", ident.Subject)
	}

	updated := &users.User{ID: existing.ID, Email: existing.Email, Name: existing.Name}
	if ident.Email != "" {
		updated.Email = ident.Email
	}
	if ident.Name != "" {
		updated.Name = ident.Name
	}
	if err := s.users.Upsert(ctx, updated); err != nil {
		return errors.Wrapf(err, "update user %s", ident.Subject)
	}

	if len(ident.Metadata) > 0 {
		if _, err := s.users.MergeMetadata(ctx, ident.Subject, ident.Metadata); err != nil {
			return errors.Wrapf(err, "merge metadata for %s", ident.Subject)
		}
	}
	return nil
}
