package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"nanokiosk/infrastructure/nanostore"
)

// OrderService is the slice of the order service the tracking core needs.
// *nanostore.Client satisfies it; tests substitute fakes.
type OrderService interface {
	ListOrders(ctx context.Context, q nanostore.OrderQuery) ([]nanostore.Order, error)
	TouchOrder(ctx context.Context, orderID string) error
	CompleteOrder(ctx context.Context, orderID string) error
	CreateTransaction(ctx context.Context, in nanostore.TransactionInput) error
	ListTransactions(ctx context.Context, q nanostore.TransactionQuery) ([]nanostore.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// Mode is the poller's client-local polling state.
type Mode int

const (
	ModeInProgress Mode = iota
	ModeReadyToUse
	ModeStopped
)

func (m Mode) String() string {
	switch m {
	case ModeInProgress:
		return "inprogress"
	case ModeReadyToUse:
		return "ready_to_use"
	default:
		return "stopped"
	}
}

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectClearLoading
	EffectExit
)

// nextFromInProgress decides the transition out of ModeInProgress given the
// result of the "inprogress" order query. The tray stays in transit only when
// the query succeeded and returned a record still marked inprogress; zero
// records, a changed status, or a failed query all advance to ready-polling.
func nextFromInProgress(orders []nanostore.Order, err error) (Mode, Effect) {
	if err == nil {
		for _, o := range orders {
			if o.TrayStatus == nanostore.StatusInProgress {
				return ModeInProgress, EffectNone
			}
		}
	}
	return ModeReadyToUse, EffectClearLoading
}

// nextFromReady decides the transition for a ready-poll result. Any 2xx
// response keeps the tray usable regardless of record count; a failed query
// ends the screen session.
func nextFromReady(err error) (Mode, Effect) {
	if err != nil {
		return ModeStopped, EffectExit
	}
	return ModeReadyToUse, EffectNone
}

// Poller resolves whether a tray is still in transit, ready for scanning, or
// gone, by polling the order service at a fixed interval.
type Poller struct {
	svc      OrderService
	trayID   string
	userID   string
	interval time.Duration

	onReady func()
	onExit  func()

	mu    sync.Mutex
	mode  Mode
	order nanostore.Order

	readyOnce sync.Once
	cancel    context.CancelFunc
}

// NewPoller builds a poller in ModeInProgress. onReady fires once when the
// tray first becomes usable; onExit fires when polling ends on failure.
func NewPoller(svc OrderService, trayID, userID string, interval time.Duration, onReady, onExit func()) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		svc:      svc,
		trayID:   trayID,
		userID:   userID,
		interval: interval,
		onReady:  onReady,
		onExit:   onExit,
		mode:     ModeInProgress,
	}
}

// Start runs the poll loop until the poller stops or ctx is done. The first
// tick happens immediately.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			p.Tick(ctx)
			if p.Mode() == ModeStopped {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Tick performs one poll step for the current mode.
func (p *Poller) Tick(ctx context.Context) {
	switch p.Mode() {
	case ModeInProgress:
		p.tickInProgress(ctx)
	case ModeReadyToUse:
		p.tickReady(ctx)
	}
}

func (p *Poller) tickInProgress(ctx context.Context) {
	orders, err := p.svc.ListOrders(ctx, nanostore.OrderQuery{
		TrayID:       p.trayID,
		TrayStatus:   nanostore.StatusInProgress,
		UserID:       p.userID,
		OrderByField: "updated_at",
		OrderByType:  "ASC",
		NumRecords:   1,
	})
	next, effect := nextFromInProgress(orders, err)

	if next == ModeReadyToUse {
		// Direct probe for the ready status. A failed probe still advances:
		// inability to confirm "in progress" must not stall the screen.
		ready, perr := p.svc.ListOrders(ctx, nanostore.OrderQuery{
			TrayID:       p.trayID,
			TrayStatus:   nanostore.StatusReadyToUse,
			UserID:       p.userID,
			OrderByField: "updated_at",
			OrderByType:  "ASC",
			NumRecords:   1,
		})
		if perr != nil {
			slog.Warn("ready probe failed, proceeding to ready-polling",
				slog.String("tray_id", p.trayID), slog.Any("err", perr))
		} else if len(ready) > 0 {
			orders = ready
		}
	}

	p.apply(ModeInProgress, next, effect, orders)
}

func (p *Poller) tickReady(ctx context.Context) {
	orders, err := p.svc.ListOrders(ctx, nanostore.OrderQuery{
		TrayID:       p.trayID,
		TrayStatus:   nanostore.StatusReadyToUse,
		UserID:       p.userID,
		OrderByField: "updated_at",
		OrderByType:  "ASC",
		NumRecords:   1,
	})
	next, effect := nextFromReady(err)
	p.apply(ModeReadyToUse, next, effect, orders)
}

// apply commits a transition. Results are dropped when the mode moved on
// while the request was in flight (screen ended, order switched).
func (p *Poller) apply(prev, next Mode, effect Effect, orders []nanostore.Order) {
	p.mu.Lock()
	if p.mode != prev {
		p.mu.Unlock()
		return
	}
	p.mode = next
	if len(orders) > 0 {
		p.order = orders[0]
	}
	p.mu.Unlock()

	switch effect {
	case EffectClearLoading:
		if p.onReady != nil {
			p.readyOnce.Do(p.onReady)
		}
	case EffectExit:
		if p.onExit != nil {
			p.onExit()
		}
	}
}

// Mode returns the current polling mode.
func (p *Poller) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Order returns the most recent order record seen by the poller.
func (p *Poller) Order() nanostore.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order
}

// Stop ends polling without firing the exit action.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.mode = ModeStopped
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
