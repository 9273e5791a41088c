package store

import (
	"context"
	"sync"
)

// MutexLocker is an in-process lock. It is a one-slot semaphore so that
// waiting for it respects context cancellation.
type MutexLocker struct {
	sem chan struct{}
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: make(chan struct{}, 1)}
}

func (m *MutexLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case m.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-m.sem }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
