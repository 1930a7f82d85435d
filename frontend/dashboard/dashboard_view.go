package dashboard

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
)

type DashboardData struct {
	Username    string
	Role        string
	ShowInbound bool
	ShowPickup  bool
	ShowAdmin   bool
	Status      string
	Error       string
}

func DashboardPage(data DashboardData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-dashboard">`)
	b.WriteString(fmt.Sprintf(`<header class="topnav"><span class="topnav-home">Nanokiosk</span><span class="topnav-user">%s (%s)</span><form method="POST" action="/logout" class="topnav-logout"><button type="submit">Logout</button></form></header>`,
		templ.EscapeString(data.Username), templ.EscapeString(data.Role)))
	b.WriteString(html.Notice(data.Error, data.Status))
	b.WriteString(`<div class="dashboard-actions">`)
	if data.ShowInbound {
		b.WriteString(`<a class="btn btn-big" href="/kiosk/bins?flow=inbound">Inbound</a>`)
	}
	if data.ShowPickup {
		b.WriteString(`<a class="btn btn-big" href="/kiosk/bins?flow=pickup">Pickup</a>`)
	}
	b.WriteString(`<a class="btn btn-big" href="/kiosk/station">Station view</a>`)
	if data.ShowAdmin {
		b.WriteString(`<a class="btn btn-big" href="/kiosk/admin">Admin</a>`)
	}
	b.WriteString(`</div></main>`)
	return html.Page("Dashboard", html.Fragment(b.String()))
}
