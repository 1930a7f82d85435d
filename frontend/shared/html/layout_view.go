package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page wraps a body component in the kiosk page chrome. Screens are rendered
// full-bleed for a mobile kiosk, so there is no outer container beyond body.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/assets/app.css"></head><body>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<script src="/assets/app.js"></script></body></html>`)
		return err
	})
}

// Fragment renders a pre-built, already-escaped HTML string.
func Fragment(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}

// Notice renders the transient message banner slot screens share.
func Notice(errorMessage, status string) string {
	switch {
	case errorMessage != "":
		return fmt.Sprintf(`<div class="notice notice-error">%s</div>`, templ.EscapeString(errorMessage))
	case status != "":
		return fmt.Sprintf(`<div class="notice notice-success">%s</div>`, templ.EscapeString(status))
	default:
		return ""
	}
}
