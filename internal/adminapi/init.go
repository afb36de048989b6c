package adminapi

// InitRouter attaches every handler group to the web server. Call after
// webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerProfileRoutes()
	registerProductRoutes()
	registerHotCoilRoutes()
	registerColdCoilRoutes()
	registerPlatesRoutes()
	registerSlabRoutes()
	registerUserAdminRoutes()
	registerMetricRoutes()
}
