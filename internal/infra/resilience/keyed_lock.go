package resilience

import (
	"context"
	"sync"
)

// KeyedLock hands out one mutual-exclusion slot per key. Entries are
// dropped once nobody holds or waits for them.
type KeyedLock struct {
	mu    sync.Mutex
	slots map[string]*keySlot
}

type keySlot struct {
	ch      chan struct{}
	waiters int
}

// NewKeyedLock creates an empty KeyedLock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{slots: make(map[string]*keySlot)}
}

// Lock blocks until key is free or ctx is done. On success the returned
// function releases the key; it must be called exactly once.
func (k *KeyedLock) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &keySlot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.waiters++
	k.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return func() { k.release(key, s, true) }, nil
	case <-ctx.Done():
		k.release(key, s, false)
		return nil, ctx.Err()
	}
}

func (k *KeyedLock) release(key string, s *keySlot, held bool) {
	if held {
		<-s.ch
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(k.slots, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (k *KeyedLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
