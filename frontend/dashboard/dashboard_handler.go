package dashboard

import (
	"net/http"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/infrastructure/rbac"
)

// DashboardPageHandler renders the operation chooser. The actions shown
// depend on the operator's role; RBAC enforces the same rules server side.
func DashboardPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data := DashboardData{
			Username:    session.Username,
			Role:        session.UserRole,
			ShowInbound: session.UserRole == rbac.RoleAdmin || session.UserRole == rbac.RoleInbound,
			ShowPickup:  session.UserRole == rbac.RoleAdmin || session.UserRole == rbac.RolePicking,
			ShowAdmin:   session.UserRole == rbac.RoleAdmin,
			Status:      r.URL.Query().Get("status"),
			Error:       r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DashboardPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
	}
}
