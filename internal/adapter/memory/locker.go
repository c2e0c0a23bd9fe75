package memory

import (
	"context"
	"sync"
)

// Locker is a single-process port/locker.AdvisoryLocker keyed like the
// Postgres one.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*sync.Mutex)}
}

func (l *Locker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	m := l.get(key)
	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

func (l *Locker) TryWithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error) {
	m := l.get(key)
	if !m.TryLock() {
		return false, nil
	}
	defer m.Unlock()
	return true, fn(ctx)
}

func (l *Locker) get(key int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
