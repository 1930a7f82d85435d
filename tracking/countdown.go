package tracking

import (
	"context"
	"sync"
	"time"
)

const (
	MinStayMinutes     = 1
	MaxStayMinutes     = 60
	DefaultStayMinutes = 2
)

// ClampStayMinutes forces a configured stay time into the allowed range,
// substituting the default for out-of-range or missing values.
func ClampStayMinutes(m int) int {
	if m < MinStayMinutes || m > MaxStayMinutes {
		return DefaultStayMinutes
	}
	return m
}

// Countdown is the auto-release timer that runs while a tray is open for
// scanning. It counts down once per second and fires onExpire exactly once
// when it reaches zero. Every successful scan resets it to the full stay time.
type Countdown struct {
	onExpire func()

	mu        sync.Mutex
	total     int
	remaining int
	active    bool
	cancel    context.CancelFunc
}

// NewCountdown builds a countdown of stayMinutes (clamped) worth of seconds.
func NewCountdown(stayMinutes int, onExpire func()) *Countdown {
	total := ClampStayMinutes(stayMinutes) * 60
	return &Countdown{
		onExpire:  onExpire,
		total:     total,
		remaining: total,
	}
}

// Start begins ticking. Starting an already-active countdown is a no-op.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.active = true
	c.remaining = c.total
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !c.Tick() {
					return
				}
			}
		}
	}()
}

// Tick advances the countdown one second. Returns false once the countdown
// has expired or been stopped. Exposed so tests can drive time directly.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return false
	}
	c.remaining--
	expired := c.remaining <= 0
	if expired {
		c.active = false
	}
	c.mu.Unlock()

	if expired {
		if c.onExpire != nil {
			c.onExpire()
		}
		return false
	}
	return true
}

// Reset restores the full stay time. Only meaningful while active.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.remaining = c.total
	}
}

// Stop ends the countdown without firing onExpire.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.active = false
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Remaining reports the seconds left and whether the countdown is running.
func (c *Countdown) Remaining() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0, false
	}
	return c.remaining, true
}
