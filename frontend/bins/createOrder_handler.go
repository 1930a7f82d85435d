package bins

import (
	gocontext "context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/uptrace/bun"

	"nanokiosk/frontend/login"
	"nanokiosk/frontend/shared/context"
	"nanokiosk/infrastructure/audit"
	"nanokiosk/infrastructure/cache"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/models"
	"nanokiosk/tracking"
)

// inflight guards against double-submitting the confirmation form. One order
// creation per kiosk session at a time.
type inflight struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func (g *inflight) begin(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tokens == nil {
		g.tokens = make(map[string]struct{})
	}
	if _, busy := g.tokens[token]; busy {
		return false
	}
	g.tokens[token] = struct{}{}
	return true
}

func (g *inflight) end(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

// CreateOrderCommandHandler opens an order for the chosen bin, stores the
// order context on the kiosk session and starts the scanning session.
func CreateOrderCommandHandler(db *sqlite.DB, ns *nanostore.Client, sessionCache *cache.SessionCache, sessions *tracking.Registry, auditSvc *audit.Service) http.HandlerFunc {
	guard := &inflight{}
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		trayID := strings.TrimSpace(r.FormValue("tray_id"))
		flow, flowOK := parseFlow(r.FormValue("flow"))
		if trayID == "" || !flowOK {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("bin and flow are required"), http.StatusSeeOther)
			return
		}
		if !flowAllowed(session.UserRole, flow) {
			http.Redirect(w, r, "/kiosk/dashboard?error="+url.QueryEscape("not allowed for your role"), http.StatusSeeOther)
			return
		}
		stayMinutes := tracking.DefaultStayMinutes
		if raw := strings.TrimSpace(r.FormValue("stay_minutes")); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				stayMinutes = tracking.ClampStayMinutes(n)
			}
		}

		// A session already scanning keeps its running order.
		if live, found := sessions.Get(session.ID); found && !live.Done() {
			http.Redirect(w, r, "/kiosk/scan", http.StatusSeeOther)
			return
		}
		if !guard.begin(session.ID) {
			http.Redirect(w, r, "/kiosk/scan", http.StatusSeeOther)
			return
		}
		defer guard.end(session.ID)

		client := ns.WithToken(session.AuthToken)
		order, err := client.CreateOrder(r.Context(), trayID, session.UserID, stayMinutes)
		if err != nil {
			slog.Error("create order failed", slog.String("tray_id", trayID), slog.Any("err", err))
			http.Redirect(w, r, "/kiosk/bins/"+url.PathEscape(trayID)+"/confirm?flow="+string(flow)+"&error="+url.QueryEscape("could not open the bin, please try again"), http.StatusSeeOther)
			return
		}

		before := orderContext(session)
		session.CurrentOrderID = order.ID.String()
		session.CurrentTrayID = trayID
		session.CurrentUserID = session.UserID
		session.TrayStayTime = strconv.Itoa(stayMinutes)
		session.CurrentFlow = string(flow)
		if err := login.UpdateSession(r.Context(), db, session); err != nil {
			slog.Error("persist order context failed", slog.String("session_id", session.ID), slog.Any("err", err))
		}
		sessionCache.Add(session)

		if err := db.WithWriteTx(r.Context(), func(ctx gocontext.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, session.UserID, "order.open", "order", order.ID.String(), before, orderContext(session))
		}); err != nil {
			slog.Error("audit order open failed", slog.Any("err", err))
		}

		sessions.Start(gocontext.Background(), session.ID, tracking.Config{
			Service:     client,
			OrderID:     order.ID.String(),
			TrayID:      trayID,
			UserID:      session.UserID,
			Flow:        flow,
			StayMinutes: stayMinutes,
		})

		http.Redirect(w, r, "/kiosk/scan", http.StatusSeeOther)
	}
}

type orderContextSnapshot struct {
	OrderID     string `json:"order_id"`
	TrayID      string `json:"tray_id"`
	UserID      string `json:"user_id"`
	StayMinutes string `json:"stay_minutes"`
	Flow        string `json:"flow"`
}

func orderContext(s models.Session) orderContextSnapshot {
	return orderContextSnapshot{
		OrderID:     s.CurrentOrderID,
		TrayID:      s.CurrentTrayID,
		UserID:      s.CurrentUserID,
		StayMinutes: s.TrayStayTime,
		Flow:        s.CurrentFlow,
	}
}
