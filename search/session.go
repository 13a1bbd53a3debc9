package search

import (
	"context"
	"sync"
)

// Session serializes searches for one consumer with cancel-and-replace
// semantics: beginning a new search cancels the previous one and waits for
// it to wind down, so only the most recent search is ever live. Dataset
// switches run inside Exclusive for the same guarantee.
type Session struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates an idle Session.
func NewSession() *Session {
	return &Session{}
}

// Begin cancels any in-flight search, waits for it to finish, and returns a
// fresh context derived from parent. The returned finish func must be called
// exactly once when the new search completes (on every exit path).
func (s *Session) Begin(parent context.Context) (context.Context, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAndWaitLocked()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	var once sync.Once
	return ctx, func() {
		once.Do(func() { close(done) })
	}
}

// CancelAndWait cancels the in-flight search, if any, and blocks until it
// has finished. Used before switching datasets.
func (s *Session) CancelAndWait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAndWaitLocked()
}

// Exclusive cancels and awaits the in-flight search, then runs fn while
// holding the session, so no new search can Begin until fn returns. Dataset
// switches run inside this section; a search can therefore never observe a
// half-switched store.
func (s *Session) Exclusive(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAndWaitLocked()
	fn()
}

func (s *Session) cancelAndWaitLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}
