package decisioning

import (
	"strings"
	"sync"
)

// GrabLock provides per-request locking so that two automatic searches for the
// same book cannot both select and grab a release.
type GrabLock struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewGrabLock creates a new GrabLock.
func NewGrabLock() *GrabLock {
	return &GrabLock{
		locks: make(map[string]struct{}),
	}
}

// Key returns the lock key for a searchable item. Items without a request ID
// are keyed by their normalized title and author.
func Key(item SearchableItem) string {
	if item.RequestID != "" {
		return "request:" + item.RequestID
	}
	title := strings.ToLower(strings.Join(strings.Fields(item.Target.Title), " "))
	author := strings.ToLower(strings.Join(strings.Fields(item.Target.Author), " "))
	return "book:" + title + "|" + author
}

// TryAcquire attempts to acquire a lock for the given key.
// Returns true if the lock was acquired, false if already held.
func (g *GrabLock) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.locks[key]; held {
		return false
	}
	g.locks[key] = struct{}{}
	return true
}

// Release releases the lock for the given key.
func (g *GrabLock) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, key)
}
