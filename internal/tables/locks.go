package tables

import (
	"sync"

	"github.com/google/uuid"
)

// tableLocks hands out one mutex per table so mutations on different tables
// never serialize against each other. A second mutation on the same table is
// rejected, not queued: the cashier retries against fresh state.
type tableLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*tableLock
}

type tableLock struct {
	busy bool
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[uuid.UUID]*tableLock)}
}

// acquire marks the table busy. Returns false when another mutation on the
// same table is in flight.
func (t *tableLocks) acquire(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[id]
	if !ok {
		lock = &tableLock{}
		t.locks[id] = lock
	}
	if lock.busy {
		return false
	}
	lock.busy = true
	return true
}

// release frees the table for the next mutation.
func (t *tableLocks) release(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lock, ok := t.locks[id]; ok {
		lock.busy = false
	}
}
