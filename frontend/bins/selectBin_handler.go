package bins

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/rbac"
	"nanokiosk/tracking"
)

// flowAllowed keeps inbound operators out of the pickup flow and vice versa.
// Admins may run both.
func flowAllowed(role string, flow tracking.Flow) bool {
	switch flow {
	case tracking.FlowInbound:
		return role == rbac.RoleAdmin || role == rbac.RoleInbound
	case tracking.FlowPickup:
		return role == rbac.RoleAdmin || role == rbac.RolePicking
	default:
		return false
	}
}

func parseFlow(raw string) (tracking.Flow, bool) {
	switch tracking.Flow(raw) {
	case tracking.FlowInbound:
		return tracking.FlowInbound, true
	case tracking.FlowPickup:
		return tracking.FlowPickup, true
	default:
		return "", false
	}
}

// SelectBinPageHandler renders the bin chooser for a flow. Pickup disables
// empty bins since there is nothing to pick from them.
func SelectBinPageHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flow, ok := parseFlow(r.URL.Query().Get("flow"))
		if !ok {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("unknown flow"), http.StatusSeeOther)
			return
		}
		if !flowAllowed(session.UserRole, flow) {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("not allowed for your role"), http.StatusSeeOther)
			return
		}

		trays, err := ns.WithToken(session.AuthToken).ListTrays(r.Context())
		if err != nil {
			slog.Error("list bins failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("could not load bins"), http.StatusSeeOther)
			return
		}

		data := SelectBinData{
			Nav:   nav.BuildTopNavData(session),
			Flow:  flow,
			Trays: trays,
			Error: r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := SelectBinPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render bin chooser", http.StatusInternalServerError)
			return
		}
	}
}

// ConfirmBinPageHandler renders the confirmation screen for a chosen bin,
// with the auto-release stay time preset.
func ConfirmBinPageHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		flow, ok := parseFlow(r.URL.Query().Get("flow"))
		if !ok {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("unknown flow"), http.StatusSeeOther)
			return
		}
		if !flowAllowed(session.UserRole, flow) {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("not allowed for your role"), http.StatusSeeOther)
			return
		}
		trayID := chi.URLParam(r, "trayID")
		if trayID == "" {
			http.Redirect(w, r, "/kiosk/bins?flow="+string(flow), http.StatusSeeOther)
			return
		}

		var items []nanostore.TrayItem
		if flow == tracking.FlowPickup {
			var err error
			items, err = ns.WithToken(session.AuthToken).TrayItems(r.Context(), trayID)
			if err != nil {
				slog.Warn("load bin items failed", slog.String("tray_id", trayID), slog.Any("err", err))
			}
		}

		data := ConfirmBinData{
			Nav:         nav.BuildTopNavData(session),
			Flow:        flow,
			TrayID:      trayID,
			StayMinutes: tracking.DefaultStayMinutes,
			Items:       items,
			Error:       r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ConfirmBinPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render confirmation", http.StatusInternalServerError)
			return
		}
	}
}
