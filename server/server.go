package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/internal/config"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/jrsteele09/go-event-portal/server/authflowrepo"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
	"github.com/jrsteele09/go-event-portal/users"
	"github.com/rs/zerolog/log"
)

// Authenticator runs the interactive login against the identity provider
type Authenticator interface {
	AuthCodeURL(state, nonce, codeVerifier string) string
	Exchange(ctx context.Context, code, codeVerifier, nonce string) (*identity.Identity, error)
}

// TokenVerifier validates bearer tokens issued by the hosted backend
type TokenVerifier interface {
	Verify(raw string) (*identity.Identity, error)
}

// Deps are the external collaborators the server talks to
type Deps struct {
	Authenticator Authenticator
	Tokens        TokenVerifier // optional, the JSON API is disabled without it
	Users         users.Repo
	LoginSessions loginsession.Repo
	AuthFlows     authflowrepo.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	router *routing.Router

	auth          Authenticator
	tokens        TokenVerifier
	users         users.Repo
	loginSessions loginsession.Repo
	authFlows     authflowrepo.Repo

	now        func() time.Time
	background sync.WaitGroup
	stop       chan struct{}
	stopOnce   sync.Once
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Authenticator == nil || deps.Users == nil || deps.LoginSessions == nil || deps.AuthFlows == nil {
		return nil, fmt.Errorf("[Server New] authenticator, users, login sessions and auth flows are required")
	}

	router, err := routing.NewRouter(routing.Paths{
		Login:         config.GetLoginPath(),
		RoleSelection: config.GetRoleSelectionPath(),
		ProfileSetup:  config.GetProfileSetupPath(),
	}, routing.DefaultRoleTable())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create router: %w", err)
	}

	s := &Server{
		env:           config.GetEnv(),
		mux:           http.NewServeMux(),
		config:        config,
		router:        router,
		auth:          deps.Authenticator,
		tokens:        deps.Tokens,
		users:         deps.Users,
		loginSessions: deps.LoginSessions,
		authFlows:     deps.AuthFlows,
		now:           time.Now,
		stop:          make(chan struct{}),
	}

	s.initRoutes()
	s.logRoutes()
	s.goBackground(s.sweepAuthFlows)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Close stops background work and waits for in-flight profile loads
func (s *Server) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.background.Wait()
}

func (s *Server) goBackground(fn func()) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		fn()
	}()
}

// sweepAuthFlows drops login attempts that were never completed
func (s *Server) sweepAuthFlows() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.authFlows.DeleteBefore(s.now().Add(-s.config.GetAuthFlowTimeout())); n > 0 {
				log.Debug().Int("count", n).Msg("Removed abandoned login attempts")
			}
		}
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
