package admin

import (
	gocontext "context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/uptrace/bun"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/audit"
	"nanokiosk/infrastructure/rbac"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/infrastructure/userapi"
)

// UserDirectory is the slice of the remote user directory the admin screens
// need. *userapi.Client satisfies it.
type UserDirectory interface {
	ListUsers(ctx gocontext.Context, token string) ([]userapi.User, error)
	UpdateUserRole(ctx gocontext.Context, token, userPhone, role string) error
}

func validRole(role string) bool {
	switch role {
	case rbac.RoleAdmin, rbac.RoleInbound, rbac.RolePicking:
		return true
	default:
		return false
	}
}

// UsersPageQueryHandler lists the operators known to the user directory.
func UsersPageQueryHandler(users UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		list, err := users.ListUsers(r.Context(), session.AuthToken)
		if err != nil {
			slog.Error("admin users: list failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("could not load users"), http.StatusSeeOther)
			return
		}

		data := UsersPageData{
			Nav:    nav.BuildTopNavData(session),
			Users:  list,
			Status: r.URL.Query().Get("status"),
			Error:  r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

// UpdateUserRoleCommandHandler patches an operator's role remotely and audits
// the change locally.
func UpdateUserRoleCommandHandler(db *sqlite.DB, users UserDirectory, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/admin/users?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		userPhone := strings.TrimSpace(r.FormValue("user_phone"))
		role := strings.TrimSpace(r.FormValue("role"))
		if userPhone == "" || !validRole(role) {
			http.Redirect(w, r, "/kiosk/admin/users?error="+url.QueryEscape("user and a valid role are required"), http.StatusSeeOther)
			return
		}

		if err := users.UpdateUserRole(r.Context(), session.AuthToken, userPhone, role); err != nil {
			slog.Error("admin users: role update failed", slog.String("user_phone", userPhone), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin/users?error="+url.QueryEscape("could not update role"), http.StatusSeeOther)
			return
		}

		if err := db.WithWriteTx(r.Context(), func(ctx gocontext.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, session.UserID, "user.role", "user", userPhone, nil, map[string]string{"role": role})
		}); err != nil {
			slog.Error("audit role update failed", slog.Any("err", err))
		}

		http.Redirect(w, r, "/kiosk/admin/users?status="+url.QueryEscape("role updated"), http.StatusSeeOther)
	}
}
