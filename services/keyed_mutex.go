package services

import "sync"

// KeyedMutex hands out one mutex per key and forgets keys nobody holds.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*keyedSlot
}

type keyedSlot struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*keyedSlot)}
}

// Lock blocks until key is free and returns the matching unlock.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &keyedSlot{}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		k.mu.Lock()
		s.refs--
		if s.refs == 0 {
			delete(k.slots, key)
		}
		k.mu.Unlock()
	}
}

// Len is the number of keys currently held or waited on.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
