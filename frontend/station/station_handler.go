package station

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
)

// StationPageHandler renders the station monitor. The screen polls the
// status API every few seconds; on API failure it clears and stops polling.
func StationPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data := StationPageData{
			Nav:   nav.BuildTopNavData(session),
			Error: r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := StationPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render station view", http.StatusInternalServerError)
			return
		}
	}
}

type stationStatus struct {
	Orders []nanostore.Order `json:"orders"`
}

// StationStatusAPIHandler lists the trays currently sitting at the station.
func StationStatusAPIHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		orders, err := ns.WithToken(session.AuthToken).ListOrders(r.Context(), nanostore.OrderQuery{
			TrayStatus:   nanostore.StatusReadyToUse,
			OrderByField: "updated_at",
			OrderByType:  "ASC",
			NumRecords:   10,
		})
		if err != nil {
			slog.Error("station status query failed", slog.Any("err", err))
			http.Error(w, "station status unavailable", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(stationStatus{Orders: orders})
	}
}

// StationReleaseCommandHandler completes an order so its tray leaves the
// station.
func StationReleaseCommandHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}
		orderID := strings.TrimSpace(r.FormValue("record_id"))
		if orderID == "" {
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("order is required"), http.StatusSeeOther)
			return
		}

		if err := ns.WithToken(session.AuthToken).CompleteOrder(r.Context(), orderID); err != nil {
			slog.Error("station release failed", slog.String("order_id", orderID), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("could not release the tray"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/kiosk/station", http.StatusSeeOther)
	}
}

// StationContinueCommandHandler keeps an order's tray at the station by
// touching the order record.
func StationContinueCommandHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}
		orderID := strings.TrimSpace(r.FormValue("record_id"))
		if orderID == "" {
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("order is required"), http.StatusSeeOther)
			return
		}

		if err := ns.WithToken(session.AuthToken).TouchOrder(r.Context(), orderID); err != nil {
			slog.Error("station continue failed", slog.String("order_id", orderID), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/station?error="+url.QueryEscape("could not extend the tray"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/kiosk/station", http.StatusSeeOther)
	}
}
