package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex      = "/"
	RouteLogin      = "/login"
	RouteCallback   = "/callback"
	RouteHome       = "/home"
	RouteActivities = "/activities"
	RouteLogout     = "/logout"
	RouteMetrics    = "/metrics"
)
