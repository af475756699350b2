package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))

	// PROFILE
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.GetProfileHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("PATCH "+RouteProfile, ChainMiddleware(s.UpdateProfileHandler(), s.APIMiddleware(s.RequireAuth())...))

	// ADMIN
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.AdminUsersListHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))
	s.RegisterRouteFunc("PATCH "+RouteUser, ChainMiddleware(s.AdminBlockUserHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))

	// INCIDENTS
	s.RegisterRouteFunc("GET "+RouteIncidents, ChainMiddleware(s.ListIncidentsHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteIncidents, ChainMiddleware(s.CreateIncidentHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteIncidentHeatmap, ChainMiddleware(s.HeatmapHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteIncident, ChainMiddleware(s.GetIncidentHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("PATCH "+RouteIncident, ChainMiddleware(s.UpdateIncidentStatusHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))
	s.RegisterRouteFunc("DELETE "+RouteIncident, ChainMiddleware(s.DeleteIncidentHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))

	// Browsers send preflights to every API path
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}
