package station

import (
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
	"nanokiosk/frontend/shared/nav"
)

type StationPageData struct {
	Nav   nav.TopNavData
	Error string
}

func StationPage(data StationPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-station" data-station-screen>`)
	b.WriteString(data.Nav.Render())
	b.WriteString(`<h1>Station</h1>`)
	b.WriteString(html.Notice(data.Error, ""))
	b.WriteString(`<div id="station-empty" class="station-empty">No tray at the station</div>`)
	b.WriteString(`<div id="station-orders" class="station-orders" hidden></div>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/dashboard">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Station", html.Fragment(b.String()))
}
