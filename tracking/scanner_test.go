package tracking

import (
	"context"
	"errors"
	"testing"

	"nanokiosk/infrastructure/nanostore"
)

func tx(id, item string) nanostore.Transaction {
	return nanostore.Transaction{ID: nanostore.FlexString(id), ItemID: item}
}

func TestScanIgnoresEmptyInput(t *testing.T) {
	svc := &fakeService{}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)

	if _, handled := s.Scan(context.Background(), "   "); handled {
		t.Fatal("empty scan produced a notice")
	}
	if len(svc.createdTx) != 0 || len(svc.touched) != 0 {
		t.Fatal("empty scan reached the order service")
	}
}

func TestScanRejectsUnknownItemLocally(t *testing.T) {
	svc := &fakeService{}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)

	notice, handled := s.Scan(context.Background(), "item99")
	if !handled || notice.Kind != NoticeError {
		t.Fatalf("notice = %+v, want error", notice)
	}
	if len(svc.createdTx) != 0 || len(svc.touched) != 0 {
		t.Fatal("invalid scan reached the order service")
	}
}

func TestScanRecordsItemAndResetsTimer(t *testing.T) {
	resets := 0
	svc := &fakeService{
		listTransactionsFn: func(q nanostore.TransactionQuery) ([]nanostore.Transaction, error) {
			return []nanostore.Transaction{tx("t1", "item2")}, nil
		},
	}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, func() { resets++ })

	notice, handled := s.Scan(context.Background(), "  ITEM2 ")
	if !handled || notice.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v, want success", notice)
	}
	if len(svc.touched) != 1 || svc.touched[0] != "o1" {
		t.Fatalf("touched = %v, want keep-alive before the scan", svc.touched)
	}
	if len(svc.createdTx) != 1 {
		t.Fatalf("createdTx = %v, want one transaction", svc.createdTx)
	}
	in := svc.createdTx[0]
	if in.ItemID != "item2" || in.OrderID != "o1" || in.Quantity != 1 || in.Type != nanostore.TypeInbound {
		t.Errorf("transaction input = %+v", in)
	}
	if resets != 1 {
		t.Fatalf("timer reset %d times, want 1", resets)
	}
	items := s.Items()
	if len(items) != 1 || items[0].ItemID != "item2" {
		t.Fatalf("items = %+v, want server list", items)
	}
}

func TestScanSurvivesKeepAliveFailure(t *testing.T) {
	svc := &fakeService{touchErr: errors.New("boom")}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)

	notice, _ := s.Scan(context.Background(), "item1")
	if notice.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v, want success despite keep-alive failure", notice)
	}
	if len(svc.createdTx) != 1 {
		t.Fatal("scan transaction not recorded")
	}
}

func TestScanCreateFailureDoesNotResetTimer(t *testing.T) {
	resets := 0
	svc := &fakeService{createTxErr: errors.New("boom")}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, func() { resets++ })

	notice, _ := s.Scan(context.Background(), "item1")
	if notice.Kind != NoticeError {
		t.Fatalf("notice = %+v, want error", notice)
	}
	if resets != 0 {
		t.Fatalf("timer reset %d times on failure, want 0", resets)
	}
}

func TestRefreshReplacesNotAppends(t *testing.T) {
	svc := &fakeService{
		listTransactionsFn: func(q nanostore.TransactionQuery) ([]nanostore.Transaction, error) {
			return []nanostore.Transaction{tx("t3", "item3")}, nil
		},
	}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)
	s.items = []nanostore.Transaction{tx("t1", "item1"), tx("t2", "item2")}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].ID != "t3" {
		t.Fatalf("items = %+v, want only the server's list", items)
	}
}

func TestRemoveDropsItemEvenWhenRefreshFails(t *testing.T) {
	svc := &fakeService{
		listTransactionsFn: func(q nanostore.TransactionQuery) ([]nanostore.Transaction, error) {
			return nil, errors.New("refresh down")
		},
	}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)
	s.items = []nanostore.Transaction{tx("t1", "item1"), tx("t2", "item2")}

	notice := s.Remove(context.Background(), "t1")
	if notice.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v, want success", notice)
	}
	if len(svc.deletedTx) != 1 || svc.deletedTx[0] != "t1" {
		t.Fatalf("deletedTx = %v", svc.deletedTx)
	}
	items := s.Items()
	if len(items) != 1 || items[0].ID != "t2" {
		t.Fatalf("items = %+v, want t1 removed despite refresh failure", items)
	}
}

func TestRemoveKeepsListOnDeleteFailure(t *testing.T) {
	svc := &fakeService{deleteTxErr: errors.New("boom")}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)
	s.items = []nanostore.Transaction{tx("t1", "item1")}

	notice := s.Remove(context.Background(), "t1")
	if notice.Kind != NoticeError {
		t.Fatalf("notice = %+v, want error", notice)
	}
	if len(s.Items()) != 1 {
		t.Fatal("item removed even though delete failed")
	}
}

func TestCompleteRequiresAtLeastOneItem(t *testing.T) {
	svc := &fakeService{}
	s := NewScanner(svc, "o1", nanostore.TypeInbound, nil, nil)

	notice, ok := s.Complete(context.Background())
	if ok || notice.Kind != NoticeError {
		t.Fatalf("notice = %+v ok = %v, want rejection", notice, ok)
	}
	if len(svc.completed) != 0 {
		t.Fatal("complete reached the order service with no items")
	}
}

func TestCompleteFinalizesOrder(t *testing.T) {
	svc := &fakeService{}
	s := NewScanner(svc, "o1", nanostore.TypeOutbound, nil, nil)
	s.items = []nanostore.Transaction{tx("t1", "item1")}

	notice, ok := s.Complete(context.Background())
	if !ok || notice.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v ok = %v", notice, ok)
	}
	if len(svc.completed) != 1 || svc.completed[0] != "o1" {
		t.Fatalf("completed = %v", svc.completed)
	}
}

func TestPickupFlowRecordsOutbound(t *testing.T) {
	svc := &fakeService{}
	s := NewScanner(svc, "o1", FlowPickup.TransactionType(), nil, nil)

	s.Scan(context.Background(), "item4")
	if len(svc.createdTx) != 1 || svc.createdTx[0].Type != nanostore.TypeOutbound {
		t.Fatalf("createdTx = %+v, want outbound", svc.createdTx)
	}
}
