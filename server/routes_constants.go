package server

// Route path constants
// The login, role selection and profile setup pages are configurable and come from config.RoutingConfig
const (
	RouteIndex = "/"

	// Auth Routes
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteCallback   = "/callback"

	// Post-authentication router
	RouteAuthRedirect = "/auth/redirect"

	// API Routes
	RouteAPIRoute = "/api/route"

	RouteHealth = "/healthz"
	RouteStatic = "/static/"
)
