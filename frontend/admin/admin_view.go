package admin

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/rbac"
	"nanokiosk/infrastructure/userapi"
)

type UsersPageData struct {
	Nav    nav.TopNavData
	Users  []userapi.User
	Status string
	Error  string
}

type BinsPageData struct {
	Nav   nav.TopNavData
	Trays []nanostore.Tray
	Error string
}

type BinItemsPageData struct {
	Nav    nav.TopNavData
	TrayID string
	Items  []nanostore.TrayItem
}

type ProductsPageData struct {
	Nav    nav.TopNavData
	Status string
	Error  string
}

type HistoryPageData struct {
	Nav          nav.TopNavData
	Transactions []nanostore.Transaction
	Type         string
	Offset       int
	PageSize     int
}

func UnlockPage(topNav nav.TopNavData, errorMessage string) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(topNav.Render())
	b.WriteString(`<h1>Admin</h1>`)
	b.WriteString(html.Notice(errorMessage, ""))
	b.WriteString(`<form method="POST" action="/kiosk/admin/unlock" class="unlock-form">`)
	b.WriteString(`<label for="pin">PIN</label>`)
	b.WriteString(`<input id="pin" name="pin" type="password" inputmode="numeric" autocomplete="off" autofocus>`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Unlock</button>`)
	b.WriteString(`</form>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/dashboard">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Admin", html.Fragment(b.String()))
}

func AdminMenuPage(topNav nav.TopNavData, status, errorMessage string) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(topNav.Render())
	b.WriteString(`<h1>Admin</h1>`)
	b.WriteString(html.Notice(errorMessage, status))
	b.WriteString(`<div class="dashboard-actions">`)
	b.WriteString(`<a class="btn btn-big" href="/kiosk/admin/users">Users</a>`)
	b.WriteString(`<a class="btn btn-big" href="/kiosk/admin/bins">Bins</a>`)
	b.WriteString(`<a class="btn btn-big" href="/kiosk/admin/products">Products</a>`)
	b.WriteString(`<a class="btn btn-big" href="/kiosk/admin/history">History</a>`)
	b.WriteString(`</div>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/dashboard">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Admin", html.Fragment(b.String()))
}

func roleOptions(current string) string {
	var b strings.Builder
	for _, role := range []string{rbac.RoleAdmin, rbac.RoleInbound, rbac.RolePicking} {
		selected := ""
		if role == current {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`, role, selected, role))
	}
	return b.String()
}

func UsersListPage(data UsersPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(`<h1>Users</h1>`)
	b.WriteString(html.Notice(data.Error, data.Status))
	b.WriteString(`<table class="item-table"><thead><tr><th>Name</th><th>ID</th><th>Role</th><th></th></tr></thead><tbody>`)
	for _, user := range data.Users {
		b.WriteString(`<tr>`)
		b.WriteString(fmt.Sprintf(`<td>%s</td><td>%s</td>`, templ.EscapeString(user.UserName), templ.EscapeString(user.UserPhone)))
		b.WriteString(`<td><form method="POST" action="/kiosk/admin/users/role" class="role-form">`)
		b.WriteString(fmt.Sprintf(`<input type="hidden" name="user_phone" value="%s">`, templ.EscapeString(user.UserPhone)))
		b.WriteString(`<select name="role">` + roleOptions(user.UserRole) + `</select>`)
		b.WriteString(`</td><td><button type="submit" class="btn">Save</button></form></td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/admin">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Users", html.Fragment(b.String()))
}

func BinsPage(data BinsPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(`<h1>Bins</h1>`)
	b.WriteString(html.Notice(data.Error, ""))
	b.WriteString(`<table class="item-table"><thead><tr><th>Bin</th><th>Status</th><th>Items</th></tr></thead><tbody>`)
	for _, tray := range data.Trays {
		trayID := tray.TrayID.String()
		if trayID == "" {
			trayID = tray.ID.String()
		}
		b.WriteString(fmt.Sprintf(`<tr><td><a href="/kiosk/admin/bins/%s/items">%s</a></td><td>%s</td><td>%s</td></tr>`,
			templ.EscapeString(trayID), templ.EscapeString(trayID),
			templ.EscapeString(tray.TrayStatus), templ.EscapeString(tray.ItemCount.String())))
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/admin">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Bins", html.Fragment(b.String()))
}

func BinItemsPage(data BinItemsPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(fmt.Sprintf(`<h1>Bin %s</h1>`, templ.EscapeString(data.TrayID)))
	if len(data.Items) == 0 {
		b.WriteString(`<p class="station-empty">Bin is empty</p>`)
	} else {
		b.WriteString(`<table class="item-table"><thead><tr><th>Item</th><th>Description</th><th>Qty</th></tr></thead><tbody>`)
		for _, item := range data.Items {
			b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(item.ItemID), templ.EscapeString(item.ItemDescription), templ.EscapeString(item.Quantity.String())))
		}
		b.WriteString(`</tbody></table>`)
	}
	b.WriteString(`<a class="btn btn-back" href="/kiosk/admin/bins">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Bin contents", html.Fragment(b.String()))
}

func ProductsPage(data ProductsPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(`<h1>Add product</h1>`)
	b.WriteString(html.Notice(data.Error, data.Status))
	b.WriteString(`<form method="POST" action="/kiosk/admin/products" class="product-form">`)
	b.WriteString(`<label for="item_id">Item code</label>`)
	b.WriteString(`<input id="item_id" name="item_id" type="text" autocomplete="off" autofocus>`)
	b.WriteString(`<label for="description">Description</label>`)
	b.WriteString(`<input id="description" name="description" type="text" autocomplete="off">`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Add</button>`)
	b.WriteString(`</form>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/admin">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("Products", html.Fragment(b.String()))
}

func HistoryPage(data HistoryPageData) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-admin">`)
	b.WriteString(data.Nav.Render())
	b.WriteString(`<h1>History</h1>`)
	b.WriteString(`<div class="history-filter">`)
	b.WriteString(`<a class="btn" href="/kiosk/admin/history">All</a>`)
	b.WriteString(`<a class="btn" href="/kiosk/admin/history?type=inbound">Inbound</a>`)
	b.WriteString(`<a class="btn" href="/kiosk/admin/history?type=outbound">Outbound</a>`)
	b.WriteString(`<a class="btn" href="/kiosk/admin/history.pdf">Export PDF</a>`)
	b.WriteString(`</div>`)
	b.WriteString(`<table class="item-table"><thead><tr><th>Item</th><th>Qty</th><th>Type</th><th>Order</th><th>Date</th></tr></thead><tbody>`)
	for _, tx := range data.Transactions {
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			templ.EscapeString(tx.ItemID), templ.EscapeString(tx.Quantity.String()),
			templ.EscapeString(tx.TransactionType), templ.EscapeString(tx.OrderID.String()),
			templ.EscapeString(tx.TransactionDate)))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<div class="history-paging">`)
	if data.Offset > 0 {
		prev := data.Offset - data.PageSize
		if prev < 0 {
			prev = 0
		}
		b.WriteString(fmt.Sprintf(`<a class="btn" href="/kiosk/admin/history?offset=%d&type=%s">Newer</a>`, prev, data.Type))
	}
	if len(data.Transactions) == data.PageSize {
		b.WriteString(fmt.Sprintf(`<a class="btn" href="/kiosk/admin/history?offset=%d&type=%s">Older</a>`, data.Offset+data.PageSize, data.Type))
	}
	b.WriteString(`</div>`)
	b.WriteString(`<a class="btn btn-back" href="/kiosk/admin">Back</a>`)
	b.WriteString(`</main>`)
	return html.Page("History", html.Fragment(b.String()))
}
