package keylock

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	locks := New()

	const goroutines = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("counter = %d, want %d", counter, goroutines)
	}
}

func TestLockDistinctKeysIndependent(t *testing.T) {
	locks := New()

	unlockA := locks.Lock(1)
	// Key 2 must not block while key 1 is held.
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}

func TestEntriesReleased(t *testing.T) {
	locks := New()

	unlock := locks.Lock(42)
	unlock()

	locks.mu.Lock()
	n := len(locks.entries)
	locks.mu.Unlock()
	if n != 0 {
		t.Fatalf("entries still held after unlock: %d", n)
	}
}
