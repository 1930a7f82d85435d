package scan

import (
	gocontext "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sessioncontext "nanokiosk/frontend/shared/context"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/models"
	"nanokiosk/tracking"
)

// remoteState is a minimal in-memory order service behind httptest.
type remoteState struct {
	mu           sync.Mutex
	transactions []map[string]any
	nextID       int
	completed    int
}

func newRemote(t *testing.T) (*httptest.Server, *remoteState) {
	t.Helper()
	state := &remoteState{nextID: 1}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/nanostore/orders":
			// The tray has already arrived: no inprogress record exists, only
			// a ready one, so the first poll advances the session to ready.
			if r.URL.Query().Get("tray_status") == nanostore.StatusInProgress {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"records": []any{
				map[string]any{"id": "o1", "tray_status": nanostore.StatusReadyToUse},
			}})
		case r.Method == http.MethodPatch && r.URL.Path == "/nanostore/orders":
			w.Write([]byte("{}"))
		case r.Method == http.MethodPatch && r.URL.Path == "/nanostore/orders/complete":
			state.completed++
			w.Write([]byte("{}"))
		case r.Method == http.MethodPost && r.URL.Path == "/nanostore/transaction":
			q := r.URL.Query()
			state.transactions = append(state.transactions, map[string]any{
				"id":                        state.nextID,
				"order_id":                  q.Get("order_id"),
				"item_id":                   q.Get("item_id"),
				"transaction_type":          q.Get("transaction_type"),
				"transaction_item_quantity": q.Get("transaction_item_quantity"),
			})
			state.nextID++
			w.Write([]byte("{}"))
		case r.Method == http.MethodGet && r.URL.Path == "/nanostore/transactions":
			json.NewEncoder(w).Encode(map[string]any{"records": state.transactions})
		case r.Method == http.MethodDelete && r.URL.Path == "/nanostore/transaction":
			id := r.URL.Query().Get("record_id")
			kept := state.transactions[:0]
			for _, tr := range state.transactions {
				if jsonNumber(tr["id"]) != id {
					kept = append(kept, tr)
				}
			}
			state.transactions = kept
			w.Write([]byte("{}"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, state
}

func jsonNumber(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func startLiveSession(t *testing.T, remoteURL string) *tracking.Registry {
	t.Helper()
	registry := tracking.NewRegistry()
	ctx, cancel := gocontext.WithCancel(gocontext.Background())
	t.Cleanup(cancel)
	s := registry.Start(ctx, "sess-1", tracking.Config{
		Service:      nanostore.NewClient(remoteURL).WithToken("tok"),
		OrderID:      "o1",
		TrayID:       "bin-a",
		UserID:       "1234",
		Flow:         tracking.FlowInbound,
		StayMinutes:  1,
		PollInterval: time.Hour,
	})
	t.Cleanup(func() { registry.End("sess-1") })

	// Wait for the immediate first poll to resolve readiness.
	deadline := time.Now().Add(2 * time.Second)
	for !s.Status().Ready && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !s.Status().Ready {
		t.Fatal("session never became ready")
	}
	return registry
}

func apiRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	s := models.Session{ID: "sess-1", UserID: "1234", AuthToken: "tok"}
	return r.WithContext(sessioncontext.NewContextWithSession(r.Context(), s))
}

func TestStatusAPIReportsReadySnapshot(t *testing.T) {
	remote, _ := newRemote(t)
	registry := startLiveSession(t, remote.URL)

	rec := httptest.NewRecorder()
	StatusAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodGet, "/kiosk/api/scan/status", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Status.Ready || resp.Status.OrderID != "o1" {
		t.Fatalf("snapshot = %+v", resp.Status)
	}
	if !resp.Status.CountdownActive {
		t.Fatal("countdown not running on ready session")
	}
}

func TestScanAPIRecordsValidItem(t *testing.T) {
	remote, state := newRemote(t)
	registry := startLiveSession(t, remote.URL)

	rec := httptest.NewRecorder()
	ScanAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan", `{"code":"ITEM3"}`))

	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notice == nil || resp.Notice.Kind != tracking.NoticeSuccess {
		t.Fatalf("notice = %+v", resp.Notice)
	}
	if len(resp.Status.Items) != 1 || resp.Status.Items[0].ItemID != "item3" {
		t.Fatalf("items = %+v, want server list with item3", resp.Status.Items)
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if len(state.transactions) != 1 {
		t.Fatalf("remote transactions = %d, want 1", len(state.transactions))
	}
}

func TestScanAPIRejectsUnknownItem(t *testing.T) {
	remote, state := newRemote(t)
	registry := startLiveSession(t, remote.URL)

	rec := httptest.NewRecorder()
	ScanAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan", `{"code":"widget9"}`))

	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notice == nil || resp.Notice.Kind != tracking.NoticeError {
		t.Fatalf("notice = %+v, want rejection", resp.Notice)
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if len(state.transactions) != 0 {
		t.Fatal("invalid item reached the order service")
	}
}

func TestRemoveAPIDeletesScan(t *testing.T) {
	remote, _ := newRemote(t)
	registry := startLiveSession(t, remote.URL)

	rec := httptest.NewRecorder()
	ScanAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan", `{"code":"item1"}`))
	var scanResp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&scanResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scanResp.Status.Items) != 1 {
		t.Fatalf("items after scan = %+v", scanResp.Status.Items)
	}
	txID := scanResp.Status.Items[0].ID.String()

	rec = httptest.NewRecorder()
	RemoveAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan/remove", `{"transaction_id":"`+txID+`"}`))
	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notice.Kind != tracking.NoticeSuccess {
		t.Fatalf("notice = %+v", resp.Notice)
	}
	if len(resp.Status.Items) != 0 {
		t.Fatalf("items after remove = %+v", resp.Status.Items)
	}
}

func TestCompleteAPIEndsSession(t *testing.T) {
	remote, state := newRemote(t)
	registry := startLiveSession(t, remote.URL)

	rec := httptest.NewRecorder()
	ScanAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan", `{"code":"item2"}`))

	rec = httptest.NewRecorder()
	CompleteAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodPost, "/kiosk/api/scan/complete", `{}`))

	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Status.Done {
		t.Fatal("session not done after complete")
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.completed != 1 {
		t.Fatalf("remote completes = %d, want 1", state.completed)
	}
}

func TestAPIWithoutLiveSessionReturns404(t *testing.T) {
	registry := tracking.NewRegistry()
	rec := httptest.NewRecorder()
	StatusAPIHandler(registry).ServeHTTP(rec, apiRequest(http.MethodGet, "/kiosk/api/scan/status", ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
