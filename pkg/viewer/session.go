package viewer

import (
	"context"
	"sync"
)

// Session scopes asynchronous work to the lifetime of one mounted viewer.
// Results are only committed while the session is alive.
type Session struct {
	mu     sync.Mutex
	alive  bool
	ctx    context.Context
	cancel context.CancelFunc
}

// Mount starts a session derived from parent. Cancelling parent has the
// same effect as Unmount.
func Mount(parent context.Context) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{alive: true, ctx: ctx, cancel: cancel}
	go func() {
		<-ctx.Done()
		s.Unmount()
	}()
	return s
}

// Context is cancelled when the session is unmounted.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// Unmount ends the session. It is safe to call more than once.
func (s *Session) Unmount() {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()
	s.cancel()
}

// Commit runs fn if the session is still alive and reports whether it
// ran. fn runs with the session locked, so Unmount cannot interleave.
func (s *Session) Commit(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return false
	}
	fn()
	return true
}
