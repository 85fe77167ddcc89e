package service

import (
	"context"
	"sync"
)

// sessionLocks hands out one lock per session so that operations on the same
// basket run one at a time. Entries are dropped once nobody holds or waits
// for them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// acquire blocks until the session's lock is held or ctx is done.
func (l *sessionLocks) acquire(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[sessionID]
	if !ok {
		lk = &sessionLock{ch: make(chan struct{}, 1)}
		l.locks[sessionID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(sessionID, lk)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lk.ch
			l.unref(sessionID, lk)
		})
	}, nil
}

func (l *sessionLocks) unref(sessionID string, lk *sessionLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, sessionID)
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
