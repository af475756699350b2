package server

import (
	"github.com/jrsteele09/citizen-watch/auth"
	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/users"
)

// Route path constants
// Paths shared with the client packages come from those packages so both sides agree.
const (
	// Auth Routes
	RouteAuthRegister = auth.RouteRegister
	RouteAuthLogin    = auth.RouteLogin
	RouteAuthRefresh  = auth.RouteRefresh
	RouteAuthLogout   = auth.RouteLogout

	// Profile Routes
	RouteProfile = users.RouteProfile

	// Admin Routes
	RouteUsers = users.RouteUsers
	RouteUser  = users.RouteUsers + "/{id}"

	// Incident Routes
	RouteIncidents       = incidents.RouteIncidents
	RouteIncidentHeatmap = incidents.RouteHeatmap
	RouteIncident        = incidents.RouteIncidents + "/{id}"

	// Health
	RouteHealth = "/healthz"
)
