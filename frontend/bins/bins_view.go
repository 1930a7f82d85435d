package bins

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/tracking"
)

type SelectBinData struct {
	Nav   nav.TopNavData
	Flow  tracking.Flow
	Trays []nanostore.Tray
	Error string
}

type ConfirmBinData struct {
	Nav         nav.TopNavData
	Flow        tracking.Flow
	TrayID      string
	StayMinutes int
	Items       []nanostore.TrayItem
	Error       string
}

func flowTitle(flow tracking.Flow) string {
	if flow == tracking.FlowPickup {
		return "Pickup"
	}
	return "Inbound"
}

func SelectBinPage(data SelectBinData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-bins">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(fmt.Sprintf(`<h1>%s: choose a bin</h1>`, flowTitle(data.Flow)))
	b.WriteString(html.Notice(data.Error, ""))
	b.WriteString(`<input id="bin-filter" type="text" placeholder="Filter by bin id" autocomplete="off">`)
	b.WriteString(`<div class="bin-grid">`)
	for _, tray := range data.Trays {
		trayID := tray.TrayID.String()
		if trayID == "" {
			trayID = tray.ID.String()
		}
		count := tray.ItemCount.String()
		if count == "" {
			count = "0"
		}
		disabled := data.Flow == tracking.FlowPickup && count == "0"
		if disabled {
			b.WriteString(fmt.Sprintf(`<span class="bin bin-empty" data-bin="%s">%s<small>empty</small></span>`,
				templ.EscapeString(trayID), templ.EscapeString(trayID)))
			continue
		}
		b.WriteString(fmt.Sprintf(`<a class="bin" data-bin="%s" href="/kiosk/bins/%s/confirm?flow=%s">%s<small>%s items</small></a>`,
			templ.EscapeString(trayID), templ.EscapeString(trayID), data.Flow, templ.EscapeString(trayID), templ.EscapeString(count)))
	}
	b.WriteString(`</div>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/dashboard">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Choose bin", html.Fragment(b.String()))
}

func ConfirmBinPage(data ConfirmBinData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-confirm">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(fmt.Sprintf(`<h1>%s bin %s</h1>`, flowTitle(data.Flow), templ.EscapeString(data.TrayID)))
	b.WriteString(html.Notice(data.Error, ""))

	if len(data.Items) > 0 {
		b.WriteString(`<table class="item-table"><thead><tr><th>Item</th><th>Qty</th></tr></thead><tbody>`)
		for _, item := range data.Items {
			b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(item.ItemID), templ.EscapeString(item.Quantity.String())))
		}
		b.WriteString(`</tbody></table>`)
	}

	b.WriteString(`<form method="POST" action="/kiosk/orders" class="confirm-form">`)
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="tray_id" value="%s">`, templ.EscapeString(data.TrayID)))
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="flow" value="%s">`, data.Flow))
	b.WriteString(`<label for="stay_minutes">Bin stays open for (minutes)</label>`)
	b.WriteString(fmt.Sprintf(`<input id="stay_minutes" name="stay_minutes" type="number" min="%d" max="%d" value="%d">`,
		tracking.MinStayMinutes, tracking.MaxStayMinutes, data.StayMinutes))
	b.WriteString(`<button type="submit" class="btn btn-primary" data-single-submit>Confirm</button>`)
	b.WriteString(`</form>`)
	b.WriteString(fmt.Sprintf(`<a class="btn btn-back" href="/kiosk/bins?flow=%s">Back</a>`, data.Flow))
	b.WriteString(`</main>`)
	return html.Page("Confirm bin", html.Fragment(b.String()))
}
