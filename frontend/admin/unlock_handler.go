package admin

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"nanokiosk/frontend/login"
	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/cache"
	"nanokiosk/infrastructure/sqlite"
)

// RequireUnlocked gates the admin screens behind the PIN unlock.
func RequireUnlocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !session.AdminUnlocked {
			http.Redirect(w, r, "/kiosk/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminHomeHandler renders the PIN entry or, once unlocked, the admin menu.
func AdminHomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if !session.AdminUnlocked {
			if err := UnlockPage(nav.BuildTopNavData(session), r.URL.Query().Get("error")).Render(r.Context(), w); err != nil {
				http.Error(w, "failed to render unlock screen", http.StatusInternalServerError)
			}
			return
		}
		if err := AdminMenuPage(nav.BuildTopNavData(session), r.URL.Query().Get("status"), r.URL.Query().Get("error")).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render admin menu", http.StatusInternalServerError)
		}
	}
}

// UnlockCommandHandler verifies the admin PIN and marks the session unlocked.
func UnlockCommandHandler(db *sqlite.DB, sessionCache *cache.SessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		pin := strings.TrimSpace(r.FormValue("pin"))
		okPIN, err := VerifyAdminPIN(r.Context(), db, pin)
		if err != nil {
			slog.Error("verify admin pin failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("could not verify PIN"), http.StatusSeeOther)
			return
		}
		if !okPIN {
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("wrong PIN"), http.StatusSeeOther)
			return
		}

		session.AdminUnlocked = true
		if err := login.UpdateSession(r.Context(), db, session); err != nil {
			slog.Error("persist admin unlock failed", slog.String("session_id", session.ID), slog.Any("err", err))
		}
		sessionCache.Add(session)
		http.Redirect(w, r, "/kiosk/admin", http.StatusSeeOther)
	}
}
