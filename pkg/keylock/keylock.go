// Package keylock provides a mutex per key. The RSVP service holds an
// event's lock across its occupancy-recompute-then-write transaction so that
// two concurrent admissions for the same event cannot both pass the capacity
// check on the same stale sum.
package keylock

import "sync"

// KeyedMutex hands out one mutex per key. Entries are reference-counted and
// removed once the last holder unlocks, so the map does not grow with the
// lifetime key space.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[uint]*entry)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
func (k *KeyedMutex) Lock(key uint) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
