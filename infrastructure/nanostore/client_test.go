package nanostore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListOrdersSendsQueryAndToken(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"records":[{"id":"o-1","tray_id":"B1","tray_status":"inprogress"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok-1")
	orders, err := client.ListOrders(context.Background(), OrderQuery{
		TrayID:       "B1",
		TrayStatus:   StatusInProgress,
		UserID:       "2001",
		OrderByField: "updated_at",
		OrderByType:  "asc",
		NumRecords:   1,
	})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "o-1" {
		t.Fatalf("unexpected orders: %+v", orders)
	}

	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	expect := map[string]string{
		"tray_id":        "B1",
		"tray_status":    "inprogress",
		"user_id":        "2001",
		"order_by_field": "updated_at",
		"order_by_type":  "ASC",
		"num_records":    "1",
	}
	for k, v := range expect {
		if gotQuery[k] != v {
			t.Fatalf("expected query %s=%s, got %s", k, v, gotQuery[k])
		}
	}
}

func TestListOrdersNotFoundMeansEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).ListOrders(context.Background(), OrderQuery{TrayID: "B1"})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}

func TestListOrdersSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListOrders(context.Background(), OrderQuery{TrayID: "B1"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", se.Code)
	}
}

func TestCreateOrderAcceptsEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.URL.Query().Get("auto_complete_time"); got != "5" {
			t.Errorf("expected auto_complete_time=5, got %s", got)
		}
		_, _ = w.Write([]byte(`{"records":[{"id":17,"tray_id":"B1"}]}`))
	}))
	defer srv.Close()

	order, err := NewClient(srv.URL).CreateOrder(context.Background(), "B1", "2001", 5)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "17" {
		t.Fatalf("expected order id 17, got %q", order.ID)
	}
}

func TestCreateOrderWithoutIDFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).CreateOrder(context.Background(), "B1", "2001", 2); err == nil {
		t.Fatalf("expected error when response carries no order id")
	}
}

func TestTouchOrderSendsEmptyObjectBody(t *testing.T) {
	var gotMethod, gotBody, gotRecord string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotRecord = r.URL.Query().Get("record_id")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).TouchOrder(context.Background(), "o-9"); err != nil {
		t.Fatalf("touch order: %v", err)
	}
	if gotMethod != http.MethodPatch || gotRecord != "o-9" || gotBody != "{}" {
		t.Fatalf("unexpected touch request: %s record=%s body=%q", gotMethod, gotRecord, gotBody)
	}
}

func TestCompleteOrderHitsCompletePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).CompleteOrder(context.Background(), "o-9"); err != nil {
		t.Fatalf("complete order: %v", err)
	}
	if gotPath != "/nanostore/orders/complete" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
}

func TestCreateTransactionEncodesInput(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).CreateTransaction(context.Background(), TransactionInput{
		OrderID:  "o-1",
		ItemID:   "item2",
		Quantity: 1,
		Type:     TypeInbound,
		Date:     "2026-03-01T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if got["order_id"] != "o-1" || got["item_id"] != "item2" ||
		got["transaction_item_quantity"] != "1" || got["transaction_type"] != "inbound" {
		t.Fatalf("unexpected transaction params: %v", got)
	}
}
