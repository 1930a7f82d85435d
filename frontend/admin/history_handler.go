package admin

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"nanokiosk/frontend/shared/context"
	"nanokiosk/frontend/shared/nav"
	"nanokiosk/infrastructure/nanostore"
)

const historyPageSize = 20

// HistoryPageQueryHandler lists recent scan transactions, newest first, with
// offset paging.
func HistoryPageQueryHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		offset := 0
		if raw := r.URL.Query().Get("offset"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				offset = n
			}
		}
		txType := r.URL.Query().Get("type")
		if txType != nanostore.TypeInbound && txType != nanostore.TypeOutbound {
			txType = ""
		}

		transactions, err := ns.WithToken(session.AuthToken).ListTransactions(r.Context(), nanostore.TransactionQuery{
			TransactionType: txType,
			OrderByField:    "updated_at",
			OrderByType:     "DESC",
			NumRecords:      historyPageSize,
			Offset:          offset,
		})
		if err != nil {
			slog.Error("admin history: list failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin?error="+url.QueryEscape("could not load history"), http.StatusSeeOther)
			return
		}

		data := HistoryPageData{
			Nav:          nav.BuildTopNavData(session),
			Transactions: transactions,
			Type:         txType,
			Offset:       offset,
			PageSize:     historyPageSize,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HistoryPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render history", http.StatusInternalServerError)
			return
		}
	}
}

// HistoryPDFQueryHandler exports the current history page as a PDF with a
// scannable barcode per transaction.
func HistoryPDFQueryHandler(ns *nanostore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		transactions, err := ns.WithToken(session.AuthToken).ListTransactions(r.Context(), nanostore.TransactionQuery{
			OrderByField: "updated_at",
			OrderByType:  "DESC",
			NumRecords:   100,
		})
		if err != nil {
			slog.Error("admin history: pdf list failed", slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/admin/history?error="+url.QueryEscape("could not export history"), http.StatusSeeOther)
			return
		}

		pdfBytes, err := renderHistoryPDF(transactions, time.Now())
		if err != nil {
			slog.Error("admin history: pdf render failed", slog.Any("err", err))
			http.Error(w, "failed to render pdf", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scan-history.pdf"))
		_, _ = w.Write(pdfBytes)
	}
}
