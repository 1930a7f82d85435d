package tracking

import (
	"context"
	"sync"
)

// Registry holds the live scanning session per kiosk session token. A kiosk
// runs at most one scanning session at a time; starting a new one ends any
// session the token already had.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Start creates and starts a session for the token, replacing any existing one.
func (r *Registry) Start(ctx context.Context, token string, cfg Config) *Session {
	s := NewSession(cfg)

	r.mu.Lock()
	if old, ok := r.sessions[token]; ok {
		old.End()
	}
	r.sessions[token] = s
	r.mu.Unlock()

	s.Start(ctx)
	return s
}

// Get returns the token's live session, if any.
func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	return s, ok
}

// End terminates and forgets the token's session.
func (r *Registry) End(token string) {
	r.mu.Lock()
	s, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if ok {
		s.End()
	}
}
