package tracking

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"nanokiosk/infrastructure/nanostore"
)

// Notice is a transient operator-facing message produced by a scan action.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// DefaultAllowedItems is the item master the kiosk accepts scans for.
var DefaultAllowedItems = []string{"item1", "item2", "item3", "item4", "item5"}

// Scanner records item scans against an open order and mirrors the order
// service's transaction list for display.
type Scanner struct {
	svc     OrderService
	orderID string
	txType  string
	reset   func()
	now     func() time.Time

	mu    sync.Mutex
	allow map[string]struct{}
	items []nanostore.Transaction
}

// NewScanner builds a scanner for an order. txType is the transaction type
// recorded per scan (inbound or outbound); reset is invoked after each
// successful scan to push the auto-release timer back.
func NewScanner(svc OrderService, orderID, txType string, allowed []string, reset func()) *Scanner {
	if len(allowed) == 0 {
		allowed = DefaultAllowedItems
	}
	allow := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		allow[strings.ToLower(id)] = struct{}{}
	}
	return &Scanner{
		svc:     svc,
		orderID: orderID,
		txType:  txType,
		reset:   reset,
		now:     time.Now,
		allow:   allow,
	}
}

// Accepts reports whether a scanned code names a known item. Matching is
// case-insensitive; surrounding whitespace is ignored.
func (s *Scanner) Accepts(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	s.mu.Lock()
	_, ok := s.allow[code]
	s.mu.Unlock()
	return code, ok
}

// Scan processes one scanned code. Empty input is ignored without a notice.
// An unknown item is rejected locally; a known item is recorded remotely with
// a keep-alive touch first, then the displayed list is refreshed from the
// server and the auto-release timer reset.
func (s *Scanner) Scan(ctx context.Context, raw string) (Notice, bool) {
	if strings.TrimSpace(raw) == "" {
		return Notice{}, false
	}
	itemID, ok := s.Accepts(raw)
	if !ok {
		return Notice{Kind: NoticeError, Message: "Item not added, invalid item"}, true
	}

	if err := s.svc.TouchOrder(ctx, s.orderID); err != nil {
		slog.Warn("order keep-alive failed", slog.String("order_id", s.orderID), slog.Any("err", err))
	}

	err := s.svc.CreateTransaction(ctx, nanostore.TransactionInput{
		OrderID:  s.orderID,
		ItemID:   itemID,
		Quantity: 1,
		Type:     s.txType,
		Date:     s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.Error("record scan failed", slog.String("order_id", s.orderID), slog.Any("err", err))
		return Notice{Kind: NoticeError, Message: "Item not added, please try again"}, true
	}

	if err := s.Refresh(ctx); err != nil {
		slog.Warn("transaction refresh failed", slog.String("order_id", s.orderID), slog.Any("err", err))
	}
	if s.reset != nil {
		s.reset()
	}
	return Notice{Kind: NoticeSuccess, Message: "Item added"}, true
}

// Remove deletes a recorded scan. The item leaves the displayed list as soon
// as the delete succeeds; the follow-up refresh is best effort.
func (s *Scanner) Remove(ctx context.Context, transactionID string) Notice {
	if transactionID == "" {
		return Notice{Kind: NoticeError, Message: "Item not removed, unknown transaction"}
	}
	if err := s.svc.DeleteTransaction(ctx, transactionID); err != nil {
		slog.Error("delete scan failed", slog.String("transaction_id", transactionID), slog.Any("err", err))
		return Notice{Kind: NoticeError, Message: "Item not removed, please try again"}
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, t := range s.items {
		if t.ID.String() != transactionID {
			kept = append(kept, t)
		}
	}
	s.items = kept
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		slog.Warn("transaction refresh failed", slog.String("order_id", s.orderID), slog.Any("err", err))
	}
	return Notice{Kind: NoticeSuccess, Message: "Item removed"}
}

// Refresh replaces the displayed list with the server's transaction list for
// the order. The local list is authoritative-server, never append-local.
func (s *Scanner) Refresh(ctx context.Context) error {
	list, err := s.svc.ListTransactions(ctx, nanostore.TransactionQuery{
		OrderID:      s.orderID,
		OrderByField: "updated_at",
		OrderByType:  "ASC",
		NumRecords:   100,
	})
	if err != nil {
		return err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt < list[j].UpdatedAt })
	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	return nil
}

// Complete finalizes the order. Requires at least one recorded scan.
func (s *Scanner) Complete(ctx context.Context) (Notice, bool) {
	s.mu.Lock()
	n := len(s.items)
	s.mu.Unlock()
	if n == 0 {
		return Notice{Kind: NoticeError, Message: "Scan at least one item first"}, false
	}
	if err := s.svc.CompleteOrder(ctx, s.orderID); err != nil {
		slog.Error("complete order failed", slog.String("order_id", s.orderID), slog.Any("err", err))
		return Notice{Kind: NoticeError, Message: "Could not complete, please try again"}, false
	}
	return Notice{Kind: NoticeSuccess, Message: "Done"}, true
}

// Items returns a copy of the displayed transaction list.
func (s *Scanner) Items() []nanostore.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]nanostore.Transaction, len(s.items))
	copy(out, s.items)
	return out
}
