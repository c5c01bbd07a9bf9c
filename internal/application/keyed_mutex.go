package application

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes operations per entity id. The booking service locks
// by car id so that check-availability, create-booking and reserve-calendar
// run as one critical section; the ledger and review services lock by
// booking id so their exists-then-write sequences cannot interleave. Two
// racing requests for the same key resolve to exactly one winner.
//
// Entries are never evicted; the map grows with the number of distinct keys
// ever locked in this process, which is bounded by catalog and booking size.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. The returned
// function releases it.
func (k *keyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
