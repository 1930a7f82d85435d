package admin

import (
	gocontext "context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/uptrace/bun"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/audit"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/sqlite"
)

// ProductsPageQueryHandler renders the add-product form.
func ProductsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data := ProductsPageData{
			Nav:    nav.BuildTopNavData(session),
			Status: r.URL.Query().Get("status"),
			Error:  r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProductsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render products page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateProductCommandHandler registers a new item in the remote item master.
func CreateProductCommandHandler(db *sqlite.DB, ns *nanostore.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/admin/products?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		itemID := strings.ToLower(strings.TrimSpace(r.FormValue("item_id")))
		description := strings.TrimSpace(r.FormValue("description"))
		if itemID == "" {
			http.Redirect(w, r, "/kiosk/admin/products?error="+url.QueryEscape("item id is required"), http.StatusSeeOther)
			return
		}

		if err := ns.WithToken(session.AuthToken).CreateItem(r.Context(), itemID, description); err != nil {
			slog.Error("admin products: create failed", slog.String("item_id", itemID), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin/products?error="+url.QueryEscape("could not add product"), http.StatusSeeOther)
			return
		}

		if err := db.WithWriteTx(r.Context(), func(ctx gocontext.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, session.UserID, "item.create", "item", itemID, nil, map[string]string{"description": description})
		}); err != nil {
			slog.Error("audit product create failed", slog.Any("err", err))
		}

		http.Redirect(w, r, "/kiosk/admin/products?status="+url.QueryEscape("product added"), http.StatusSeeOther)
	}
}
