package concurrency

import (
	"sync"
)

// LockManager hands out named mutexes. The sync coordinator uses one lock
// per user id so concurrent batches for the same user serialize while
// different users proceed in parallel. Locks are never released from the
// map; the per-user footprint is a single mutex.
type LockManager struct {
	locks sync.Map
}

func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
