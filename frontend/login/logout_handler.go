package login

import (
	"net/http"

	"nanokiosk/infrastructure/cache"
	sessioncookie "nanokiosk/infrastructure/session"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/tracking"
)

// LogoutHandler removes session state, ends any live scanning session and
// clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.SessionCache, sessions *tracking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessions.End(cookie.Value)
			sessionCache.Delete(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
