package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminpage "nanokiosk/frontend/admin"
	binspage "nanokiosk/frontend/bins"
	dashboardpage "nanokiosk/frontend/dashboard"
	"nanokiosk/frontend/login"
	scanpage "nanokiosk/frontend/scan"
	stationpage "nanokiosk/frontend/station"
	"nanokiosk/infrastructure/rbac"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.Users, s.SessionCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Sessions))
}

// RegisterKioskRoutes registers the authenticated operator screens.
func (s *Server) RegisterKioskRoutes(r chi.Router) chi.Router {
	for _, role := range []string{rbac.RoleInbound, rbac.RolePicking} {
		s.Rbac.Add(role, "DASHBOARD_VIEW", http.MethodGet, "/kiosk/dashboard")
		s.Rbac.Add(role, "BINS_VIEW", http.MethodGet, "/kiosk/bins")
		s.Rbac.Add(role, "BIN_CONFIRM_VIEW", http.MethodGet, "/kiosk/bins/*/confirm")
		s.Rbac.Add(role, "ORDER_CREATE", http.MethodPost, "/kiosk/orders")
		s.Rbac.Add(role, "SCAN_VIEW", http.MethodGet, "/kiosk/scan")
		s.Rbac.Add(role, "SCAN_EXIT", http.MethodPost, "/kiosk/scan/exit")
		s.Rbac.Add(role, "SCAN_API", http.MethodGet, "/kiosk/api/scan/*")
		s.Rbac.Add(role, "SCAN_API", http.MethodPost, "/kiosk/api/scan")
		s.Rbac.Add(role, "SCAN_API", http.MethodPost, "/kiosk/api/scan/*")
		s.Rbac.Add(role, "STATION_VIEW", http.MethodGet, "/kiosk/station")
		s.Rbac.Add(role, "STATION_API", http.MethodGet, "/kiosk/api/station/status")
		s.Rbac.Add(role, "STATION_RELEASE", http.MethodPost, "/kiosk/station/release")
		s.Rbac.Add(role, "STATION_CONTINUE", http.MethodPost, "/kiosk/station/continue")
	}

	r.Get("/dashboard", dashboardpage.DashboardPageHandler())

	r.Get("/bins", binspage.SelectBinPageHandler(s.Nanostore))
	r.Get("/bins/{trayID}/confirm", binspage.ConfirmBinPageHandler(s.Nanostore))
	r.Post("/orders", binspage.CreateOrderCommandHandler(s.DB, s.Nanostore, s.SessionCache, s.Sessions, s.Audit))

	r.Get("/scan", scanpage.ScanPageHandler(s.Sessions))
	r.Post("/scan/exit", scanpage.ExitScanCommandHandler(s.Sessions))
	r.Get("/api/scan/status", scanpage.StatusAPIHandler(s.Sessions))
	r.Post("/api/scan", scanpage.ScanAPIHandler(s.Sessions))
	r.Post("/api/scan/remove", scanpage.RemoveAPIHandler(s.Sessions))
	r.Post("/api/scan/complete", scanpage.CompleteAPIHandler(s.Sessions))

	r.Get("/station", stationpage.StationPageHandler())
	r.Get("/api/station/status", stationpage.StationStatusAPIHandler(s.Nanostore))
	r.Post("/station/release", stationpage.StationReleaseCommandHandler(s.Nanostore))
	r.Post("/station/continue", stationpage.StationContinueCommandHandler(s.Nanostore))

	return r
}

// RegisterAdminRoutes registers admin-only routes. RBAC already limits these
// to the admin role; the PIN gate guards everything past the unlock screen.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	r.Get("/admin", adminpage.AdminHomeHandler())
	r.Post("/admin/unlock", adminpage.UnlockCommandHandler(s.DB, s.SessionCache))

	r.Group(func(r chi.Router) {
		r.Use(adminpage.RequireUnlocked)
		r.Get("/admin/users", adminpage.UsersPageQueryHandler(s.Users))
		r.Post("/admin/users/role", adminpage.UpdateUserRoleCommandHandler(s.DB, s.Users, s.Audit))
		r.Get("/admin/bins", adminpage.BinsPageQueryHandler(s.Nanostore))
		r.Get("/admin/bins/{trayID}/items", adminpage.BinItemsPageQueryHandler(s.Nanostore))
		r.Get("/admin/products", adminpage.ProductsPageQueryHandler())
		r.Post("/admin/products", adminpage.CreateProductCommandHandler(s.DB, s.Nanostore, s.Audit))
		r.Get("/admin/history", adminpage.HistoryPageQueryHandler(s.Nanostore))
		r.Get("/admin/history.pdf", adminpage.HistoryPDFQueryHandler(s.Nanostore))
	})

	return r
}
