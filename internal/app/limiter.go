package app

import "sync"

// KeyedLimiter serializes operations per key. Used to keep two concurrent
// invoice uploads for the same closing from interleaving store+update.
type KeyedLimiter struct {
	mu   sync.Mutex
	byID map[string]*sync.Mutex
}

func NewKeyedLimiter() *KeyedLimiter {
	return &KeyedLimiter{byID: make(map[string]*sync.Mutex)}
}

// Lock acquires the key's mutex and returns the unlock func.
func (l *KeyedLimiter) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.byID[key]
	if !ok {
		m = &sync.Mutex{}
		l.byID[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
