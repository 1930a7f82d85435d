package nav

import (
	"fmt"

	"github.com/a-h/templ"

	"nanokiosk/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Role     string
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{Username: session.Username, Role: session.UserRole}
}

// Render returns the shared header bar markup.
func (d TopNavData) Render() string {
	return fmt.Sprintf(
		`<header class="topnav"><a class="topnav-home" href="/kiosk/dashboard">Nanokiosk</a><span class="topnav-user">%s (%s)</span><form method="POST" action="/logout" class="topnav-logout"><button type="submit">Logout</button></form></header>`,
		templ.EscapeString(d.Username), templ.EscapeString(d.Role))
}
