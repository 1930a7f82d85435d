package admin

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
)

// BinsPageQueryHandler lists all bins with their status and item counts.
func BinsPageQueryHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		trays, err := ns.WithToken(session.AuthToken).ListTrays(r.Context())
		if err != nil {
			slog.Error("admin bins: list failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("could not load bins"), http.StatusSeeOther)
			return
		}

		data := BinsPageData{
			Nav:   nav.BuildTopNavData(session),
			Trays: trays,
			Error: r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := BinsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render bins page", http.StatusInternalServerError)
			return
		}
	}
}

// BinItemsPageQueryHandler shows the contents of one bin.
func BinItemsPageQueryHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		trayID := chi.URLParam(r, "trayID")
		if trayID == "" {
			http.Redirect(w, r, "/kiosk/admin/bins", http.StatusSeeOther)
			return
		}

		items, err := ns.WithToken(session.AuthToken).TrayItems(r.Context(), trayID)
		if err != nil {
			slog.Error("admin bins: items failed", slog.String("tray_id", trayID), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin/bins?error="+url.QueryEscape("could not load bin contents"), http.StatusSeeOther)
			return
		}

		data := BinItemsPageData{
			Nav:    nav.BuildTopNavData(session),
			TrayID: trayID,
			Items:  items,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := BinItemsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render bin contents", http.StatusInternalServerError)
			return
		}
	}
}
