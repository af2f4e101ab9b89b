package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Portal flow
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteProfile  = "/profile"
	RouteLogout   = "/logout"

	// Operational
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
