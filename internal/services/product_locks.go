// internal/services/product_locks.go
package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ProductLocks hands out one mutex per product id. Entries are dropped once no
// goroutine holds or waits for them. Every service that writes a product row
// must share the same instance.
type ProductLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*productLock
}

type productLock struct {
	sem  chan struct{}
	refs int
}

func NewProductLocks() *ProductLocks {
	return &ProductLocks{locks: make(map[uuid.UUID]*productLock)}
}

// acquire blocks until the product's lock is free or ctx is done. The returned
// func releases the lock and must be called exactly once.
func (l *ProductLocks) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &productLock{sem: make(chan struct{}, 1)}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
		return func() {
			<-lock.sem
			l.unref(id, lock)
		}, nil
	case <-ctx.Done():
		l.unref(id, lock)
		return nil, ctx.Err()
	}
}

func (l *ProductLocks) unref(id uuid.UUID, lock *productLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *ProductLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
