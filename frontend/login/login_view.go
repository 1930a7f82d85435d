package login

import (
	"strings"

	"github.com/a-h/templ"

	"nanokiosk/frontend/shared/html"
)

// GetLoginScreen renders the operator identification screen.
func GetLoginScreen(errorMessage string) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="screen screen-login">`)
	b.WriteString(`<h1>Warehouse Kiosk</h1>`)
	b.WriteString(html.Notice(errorMessage, ""))
	b.WriteString(`<form method="POST" action="/login" class="login-form">`)
	b.WriteString(`<label for="user_id">Identification number</label>`)
	b.WriteString(`<input id="user_id" name="user_id" type="text" inputmode="numeric" pattern="[0-9]*" autocomplete="off" autofocus>`)
	b.WriteString(`<button type="submit" class="btn btn-primary">Login</button>`)
	b.WriteString(`</form>`)
	b.WriteString(`</main>`)
	return html.Page("Login", html.Fragment(b.String()))
}
