package scan

import (
	"net/http"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/tracking"
)

// ScanPageHandler renders the scanning screen for the session's live order.
// Without a live order the operator is sent back to the dashboard.
func ScanPageHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		live, found := sessions.Get(session.ID)
		if !found || live.Done() {
			http.Redirect(w, r, "/kiosk/dashboard", http.StatusSeeOther)
			return
		}

		data := ScanPageData{
			Nav:    nav.BuildTopNavData(session),
			Status: live.Status(),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ScanPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render scan screen", http.StatusInternalServerError)
			return
		}
	}
}

// ExitScanCommandHandler ends the live session and returns to the dashboard.
// The order stays open on the order service; its own auto-complete applies.
func ExitScanCommandHandler(sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		sessions.End(session.ID)
		http.Redirect(w, r, "/kiosk/dashboard", http.StatusSeeOther)
	}
}
