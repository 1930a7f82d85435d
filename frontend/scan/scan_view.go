package scan

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/tracking"
)

type ScanPageData struct {
	Nav    nav.TopNavData
	Status tracking.Status
}

func ScanPage(data ScanPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-scan" data-scan-screen>`)
	b.WriteString(data.Nav.Render())

	title := "Inbound"
	if data.Status.Flow == tracking.FlowPickup {
		title = "Pickup"
	}
	b.WriteString(fmt.Sprintf(`<h1>%s: bin %s</h1>`, title, templ.EscapeString(data.Status.TrayID)))

	// Shown until the bin arrives; the poll loop hides it.
	b.WriteString(`<div id="tray-loading" class="tray-loading`)
	if data.Status.Ready {
		b.WriteString(` hidden`)
	}
	b.WriteString(`">Waiting for the bin to arrive...</div>`)

	b.WriteString(`<div id="scan-area"`)
	if !data.Status.Ready {
		b.WriteString(` hidden`)
	}
	b.WriteString(`>`)
	b.WriteString(`<div id="countdown" class="countdown" data-seconds="`)
	b.WriteString(fmt.Sprintf("%d", data.Status.CountdownSeconds))
	b.WriteString(`"></div>`)
	b.WriteString(`<div id="notice-slot"></div>`)
	b.WriteString(`<form id="scan-form" class="scan-form" autocomplete="off">`)
	b.WriteString(`<input id="scan-input" name="code" type="text" placeholder="Scan or enter item code" autofocus>`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Add</button>`)
	b.WriteString(`</form>`)
	b.WriteString(`<table class="item-table"><thead><tr><th>Item</th><th>Qty</th><th></th></tr></thead><tbody id="scan-items">`)
	for _, item := range data.Status.Items {
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td><button class="btn btn-remove" data-remove="%s">Remove</button></td></tr>`,
			templ.EscapeString(item.ItemID), templ.EscapeString(item.Quantity.String()), templ.EscapeString(item.ID.String())))
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<button id="scan-complete" class="btn btn-primary">Done</button>`)
	b.WriteString(`</div>`)

	b.WriteString(`<form id="scan-exit-form" method="POST" action="/kiosk/scan/exit"><button type="submit" class="btn btn-back">Exit</button></form>`)
	b.WriteString(`</main>`)
	return html.Page(title, html.Fragment(b.String()))
}
