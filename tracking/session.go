package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"nanokiosk/infrastructure/nanostore"
)

// Flow names the direction of a scanning session.
type Flow string

const (
	FlowInbound Flow = "inbound"
	FlowPickup  Flow = "pickup"
)

// TransactionType maps a flow to the transaction type recorded per scan.
func (f Flow) TransactionType() string {
	if f == FlowPickup {
		return nanostore.TypeOutbound
	}
	return nanostore.TypeInbound
}

// Config describes one scanning session to start.
type Config struct {
	Service      OrderService
	OrderID      string
	TrayID       string
	UserID       string
	Flow         Flow
	StayMinutes  int
	PollInterval time.Duration
	AllowedItems []string
}

// Session is one operator's live scanning session against one order. It owns
// the readiness poller, the auto-release countdown and the scan list, and it
// ends exactly once no matter which of them triggers the exit.
type Session struct {
	cfg       Config
	poller    *Poller
	countdown *Countdown
	scanner   *Scanner

	mu      sync.Mutex
	ctx     context.Context
	done    bool
	endOnce sync.Once
}

// Status is the snapshot the scan screen polls for.
type Status struct {
	OrderID          string                  `json:"order_id"`
	TrayID           string                  `json:"tray_id"`
	Flow             Flow                    `json:"flow"`
	Mode             string                  `json:"mode"`
	Ready            bool                    `json:"ready"`
	Done             bool                    `json:"done"`
	CountdownSeconds int                     `json:"countdown_seconds"`
	CountdownActive  bool                    `json:"countdown_active"`
	Items            []nanostore.Transaction `json:"items"`
}

// NewSession wires a session together. Call Start to begin polling.
func NewSession(cfg Config) *Session {
	s := &Session{cfg: cfg}

	s.countdown = NewCountdown(cfg.StayMinutes, s.expire)
	s.scanner = NewScanner(cfg.Service, cfg.OrderID, cfg.Flow.TransactionType(), cfg.AllowedItems, s.countdown.Reset)
	s.poller = NewPoller(cfg.Service, cfg.TrayID, cfg.UserID, cfg.PollInterval, s.ready, s.End)
	return s
}

// Start begins the readiness poll loop. ctx bounds the session's background
// work; the server passes a long-lived context, tests a cancellable one.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.poller.Start(ctx)
}

// ready fires once when the tray becomes usable: the countdown begins and the
// scan list is primed from the server.
func (s *Session) ready() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.countdown.Start(ctx)

	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.scanner.Refresh(rctx); err != nil {
		slog.Warn("initial transaction refresh failed",
			slog.String("order_id", s.cfg.OrderID), slog.Any("err", err))
	}
}

// expire is the countdown's zero action: release the order, then end.
func (s *Session) expire() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.cfg.Service.CompleteOrder(ctx, s.cfg.OrderID); err != nil {
		slog.Error("auto-release failed", slog.String("order_id", s.cfg.OrderID), slog.Any("err", err))
	}
	s.End()
}

// Scan records one scanned code.
func (s *Session) Scan(ctx context.Context, code string) (Notice, bool) {
	return s.scanner.Scan(ctx, code)
}

// Remove deletes one recorded scan.
func (s *Session) Remove(ctx context.Context, transactionID string) Notice {
	return s.scanner.Remove(ctx, transactionID)
}

// Complete finalizes the order and, on success, ends the session.
func (s *Session) Complete(ctx context.Context) (Notice, bool) {
	notice, ok := s.scanner.Complete(ctx)
	if ok {
		s.End()
	}
	return notice, ok
}

// Status snapshots the session for the polling screen.
func (s *Session) Status() Status {
	remaining, active := s.countdown.Remaining()
	mode := s.poller.Mode()
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	return Status{
		OrderID:          s.cfg.OrderID,
		TrayID:           s.cfg.TrayID,
		Flow:             s.cfg.Flow,
		Mode:             mode.String(),
		Ready:            mode == ModeReadyToUse,
		Done:             done,
		CountdownSeconds: remaining,
		CountdownActive:  active,
		Items:            s.scanner.Items(),
	}
}

// Done reports whether the session has ended.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// End tears the session down. Safe to call from any of the exit paths
// (operator done, countdown expiry, poll failure); only the first call acts.
func (s *Session) End() {
	s.endOnce.Do(func() {
		s.poller.Stop()
		s.countdown.Stop()
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
	})
}
