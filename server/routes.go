package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteStatic, StaticFileHandler())

	// LOGIN
	paths := s.router.Paths()
	s.RegisterRouteHandler("GET "+paths.Login, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginStartHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...)) // For form_post response mode

	// Post-authentication routing
	s.RegisterRouteHandler("GET "+RouteAuthRedirect, ChainMiddleware(s.PostAuthRedirectHandler(), s.HTMLMiddleWare()...))

	// Onboarding (require a session)
	s.RegisterRouteHandler("GET "+paths.RoleSelection, ChainMiddleware(s.RoleSelectionGetHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+paths.RoleSelection, ChainMiddleware(s.RoleSelectionPostHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+paths.ProfileSetup, ChainMiddleware(s.ProfileSetupGetHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+paths.ProfileSetup, ChainMiddleware(s.ProfileSetupPostHandler(), s.HTMLMiddleWare(s.RequireSession())...))

	// Role landing pages, only reachable by users the router sends there
	for _, destination := range s.router.Roles().Destinations() {
		s.RegisterRouteHandler("GET "+destination, ChainMiddleware(s.LandingPageHandler(destination), s.HTMLMiddleWare(s.RequireSession())...))
	}

	// JSON API for clients holding a backend access token
	s.RegisterRouteHandler("GET "+RouteAPIRoute, ChainMiddleware(s.APIRouteHandler(), s.APIMiddleware(s.RequireBearer())...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPIRoute, ChainMiddleware(http.NotFound, s.APIMiddleware()...))
}
