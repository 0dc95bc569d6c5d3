package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileDetails is what a user fills in on the profile setup page
type ProfileDetails struct {
	FullName string `validate:"required,min=2,max=120"`
	Phone    string `validate:"omitempty,e164"`
	City     string `validate:"required,max=80"`
	Team     string `validate:"omitempty,max=80"`
}

// FieldError names the first ProfileDetails field that failed validation
type FieldError struct {
	Field string // struct field name, e.g. "FullName"
	Tag   string // validator tag that failed, e.g. "required"
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s failed %s", errors.ErrInvalidRequest, strings.ToLower(e.Field), e.Tag)
}

func (e *FieldError) Unwrap() error {
	return errors.ErrInvalidRequest
}

// Validate returns a *FieldError for the first failing field
func (d ProfileDetails) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &FieldError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
	}
	return errors.Wrapf(err, "profile details")
}

// SelectRole records the role a user picked for themselves
func SelectRole(ctx context.Context, repo Repo, userID string, role routing.RoleType) (*User, error) {
	if !routing.IsSelectable(role) {
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidRole, role)
	}
	user, err := repo.MergeMetadata(ctx, userID, map[string]any{
		routing.MetadataKeyRole: string(role),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "[users SelectRole] user %s", userID)
	}
	return user, nil
}

// CompleteProfile stores the profile details and marks the profile complete
func CompleteProfile(ctx context.Context, repo Repo, userID string, details ProfileDetails) (*User, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	patch := map[string]any{
		"fullName":                         details.FullName,
		"city":                             details.City,
		routing.MetadataKeyProfileComplete: true,
	}
	if details.Phone != "" {
		patch["phone"] = details.Phone
	}
	if details.Team != "" {
		patch["team"] = details.Team
	}
	user, err := repo.MergeMetadata(ctx, userID, patch)
	if err != nil {
		return nil, errors.Wrapf(err, "[users CompleteProfile] user %s", userID)
	}
	return user, nil
}
