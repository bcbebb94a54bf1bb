package cart

import "sync"

// Sessions hands out one Cart per session id. Carts live for the process
// lifetime; there is no persistence across restarts.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Cart)}
}

// Get returns the cart for the session, creating it on first use.
func (s *Sessions) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// Drop discards a session's cart.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
