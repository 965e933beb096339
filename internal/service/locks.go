package service

import (
	"sync"

	"github.com/google/uuid"
)

// tripLocks serializes mutating operations per trip. Balance computation
// reads committed state, so only writers contend; a single locker instance
// is shared by the expense and booking services so membership and ledger
// writes for one trip never interleave.
type tripLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewTripLocks creates the shared per-trip write locker.
func NewTripLocks() *tripLocks {
	return &tripLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *tripLocks) lock(tripID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[tripID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tripID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}
