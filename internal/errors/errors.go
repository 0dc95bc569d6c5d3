package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal
var (
	// Identity errors
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidState   = errors.New("invalid state")
	ErrInvalidNonce   = errors.New("invalid nonce")
	ErrMissingIDToken = errors.New("missing id token")

	// Profile store errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
