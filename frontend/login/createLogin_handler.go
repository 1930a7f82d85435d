package login

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"nanokiosk/infrastructure/cache"
	sessioncookie "nanokiosk/infrastructure/session"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/infrastructure/userapi"
	"nanokiosk/models"
)

// Validator checks an operator identification number against the remote user
// directory. *userapi.Client satisfies it.
type Validator interface {
	Validate(ctx context.Context, userPhone string) (userapi.ValidateResult, error)
}

// CreateLoginHandler validates the operator ID remotely and issues a local
// session cookie carrying the remote auth token.
func CreateLoginHandler(db *sqlite.DB, users Validator, sessionCache *cache.SessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		userID := strings.TrimSpace(r.FormValue("user_id"))
		if userID == "" {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("identification number is required"), http.StatusSeeOther)
			return
		}
		if !isDigits(userID) {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("identification number must be numeric"), http.StatusSeeOther)
			return
		}

		result, err := users.Validate(r.Context(), userID)
		if err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("identification number not recognized"), http.StatusSeeOther)
			return
		}

		session := newSession(userID, result)
		if err := persistSession(r.Context(), db, session); err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("failed to create session"), http.StatusSeeOther)
			return
		}
		sessionCache.Add(session)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, 12*60*60))
		http.Redirect(w, r, "/kiosk/dashboard", http.StatusSeeOther)
	}
}

func newSession(userID string, result userapi.ValidateResult) models.Session {
	username := result.User.UserName
	if username == "" {
		username = userID
	}
	return models.Session{
		ID:        newSessionToken(),
		UserID:    userID,
		Username:  username,
		UserRole:  result.User.UserRole,
		AuthToken: result.Token,
		ExpiresAt: sessioncookie.DefaultExpiry(),
	}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
