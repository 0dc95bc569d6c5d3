package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/jrsteele09/go-event-portal/users"
	"github.com/rs/zerolog"
)

var roleLabels = map[routing.RoleType]string{
	routing.RoleAthlete:   "Atleta",
	routing.RoleJudge:     "Juiz",
	routing.RoleMedia:     "Mídia",
	routing.RoleSpectator: "Espectador",
}

type RoleOption struct {
	Value    string
	Label    string
	Selected bool
}

// RoleSelectionPageData contains data for rendering the role selection page
type RoleSelectionPageData struct {
	AppName   string
	Error     string
	ActionURL string
	Roles     []RoleOption
}

// ProfileSetupPageData contains data for rendering the profile setup page
type ProfileSetupPageData struct {
	AppName   string
	Error     string
	ActionURL string
	Role      string
	FullName  string
	Phone     string
	City      string
	Team      string
}

// loadSessionUser returns the signed in user, or false after redirecting when the profile isn't available yet
func (s *Server) loadSessionUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		redirectSuccess(w, r, s.router.Paths().Login)
		return nil, false
	}
	if !session.Loaded {
		redirectSuccess(w, r, RouteAuthRedirect)
		return nil, false
	}

	user, err := s.users.Get(r.Context(), session.UserID)
	if errors.Is(err, errors.ErrUserNotFound) {
		redirectSuccess(w, r, RouteAuthRedirect)
		return nil, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("user_id", session.UserID).Msg("Failed to load user")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return nil, false
	}
	return user, true
}

func roleOptions(current routing.RoleType) []RoleOption {
	options := make([]RoleOption, 0, len(routing.SelectableRoles))
	for _, role := range routing.SelectableRoles {
		options = append(options, RoleOption{
			Value:    string(role),
			Label:    roleLabels[role],
			Selected: role == current,
		})
	}
	return options
}

// RoleSelectionGetHandler shows the roles a user can pick for themselves
func (s *Server) RoleSelectionGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("select_role.html")

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.loadSessionUser(w, r)
		if !ok {
			return
		}

		data := RoleSelectionPageData{
			AppName:   s.config.GetAppName(),
			Error:     r.URL.Query().Get("error"),
			ActionURL: s.router.Paths().RoleSelection,
			Roles:     roleOptions(user.Profile().Role),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render role selection template")
		}
	}
}

// RoleSelectionPostHandler stores the chosen role and hands back to the router
func (s *Server) RoleSelectionPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, s.router.Paths().RoleSelection, "Dados do formulário inválidos")
			return
		}

		role := routing.RoleType(strings.TrimSpace(r.FormValue("role")))
		_, err := users.SelectRole(r.Context(), s.users, session.UserID, role)
		switch {
		case err == nil:
			zerolog.Ctx(r.Context()).Info().Str("user_id", session.UserID).Str("role", string(role)).Msg("Role selected")
			redirectSuccess(w, r, RouteAuthRedirect)
		case errors.Is(err, errors.ErrInvalidRole):
			redirectWithError(w, r, s.router.Paths().RoleSelection, "Escolha um dos perfis listados")
		case errors.Is(err, errors.ErrUserNotFound):
			redirectSuccess(w, r, RouteAuthRedirect)
		default:
			zerolog.Ctx(r.Context()).Err(err).Str("user_id", session.UserID).Msg("Failed to select role")
			http.Error(w, "Failed to save role", http.StatusInternalServerError)
		}
	}
}

// ProfileSetupGetHandler shows the profile form, prefilled with anything already stored
func (s *Server) ProfileSetupGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("profile_setup.html")

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.loadSessionUser(w, r)
		if !ok {
			return
		}
		profile := user.Profile()
		if !profile.HasRole() {
			// The router sends role-less users to role selection first
			redirectSuccess(w, r, RouteAuthRedirect)
			return
		}

		data := ProfileSetupPageData{
			AppName:   s.config.GetAppName(),
			Error:     r.URL.Query().Get("error"),
			ActionURL: s.router.Paths().ProfileSetup,
			Role:      roleLabel(profile.Role),
			FullName:  metadataString(user.Metadata, "fullName", user.Name),
			Phone:     metadataString(user.Metadata, "phone", ""),
			City:      metadataString(user.Metadata, "city", ""),
			Team:      metadataString(user.Metadata, "team", ""),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render profile setup template")
		}
	}
}

// ProfileSetupPostHandler validates and stores the profile details then hands back to the router
func (s *Server) ProfileSetupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.loadSessionUser(w, r)
		if !ok {
			return
		}
		if !user.Profile().HasRole() {
			// The router sends role-less users to role selection first
			redirectSuccess(w, r, RouteAuthRedirect)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, s.router.Paths().ProfileSetup, "Dados do formulário inválidos")
			return
		}

		details := users.ProfileDetails{
			FullName: strings.TrimSpace(r.FormValue("full_name")),
			Phone:    strings.TrimSpace(r.FormValue("phone")),
			City:     strings.TrimSpace(r.FormValue("city")),
			Team:     strings.TrimSpace(r.FormValue("team")),
		}
		_, err := users.CompleteProfile(r.Context(), s.users, user.ID, details)
		switch {
		case err == nil:
			zerolog.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("Profile completed")
			redirectSuccess(w, r, RouteAuthRedirect)
		case errors.Is(err, errors.ErrInvalidRequest):
			redirectWithError(w, r, s.router.Paths().ProfileSetup, profileFieldMessage(err))
		case errors.Is(err, errors.ErrUserNotFound):
			redirectSuccess(w, r, RouteAuthRedirect)
		default:
			zerolog.Ctx(r.Context()).Err(err).Str("user_id", user.ID).Msg("Failed to complete profile")
			http.Error(w, "Failed to save profile", http.StatusInternalServerError)
		}
	}
}

var profileFieldLabels = map[string]string{
	"FullName": "Nome completo",
	"Phone":    "Telefone",
	"City":     "Cidade",
	"Team":     "Equipe",
}

// profileFieldMessage turns a profile validation error into a message for the form
func profileFieldMessage(err error) string {
	var fieldErr *users.FieldError
	if !errors.As(err, &fieldErr) {
		return "Verifique os dados do perfil"
	}
	label, ok := profileFieldLabels[fieldErr.Field]
	if !ok {
		label = fieldErr.Field
	}
	switch fieldErr.Tag {
	case "required":
		return label + " é obrigatório"
	case "e164":
		return label + " deve estar no formato +5511999999999"
	case "min":
		return label + " é muito curto"
	case "max":
		return label + " é muito longo"
	default:
		return label + " é inválido"
	}
}

func roleLabel(role routing.RoleType) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}

func metadataString(metadata map[string]any, key, fallback string) string {
	if v, ok := metadata[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
