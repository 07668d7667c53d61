package client

import "sync"

// State is the client-side view of one engagement relation: the counter shown
// in the UI and whether the viewer is part of it (has liked, follows, has
// bookmarked).
type State struct {
	Count  int64
	Active bool
}

type cacheEntry struct {
	state State
	known bool
}

// EngagementCache keeps the last known engagement state per cache key and
// implements the speculative-apply/rollback pair used by toggle mutations:
// the optimistic value is written before the network round trip and the prior
// snapshot is restored verbatim if the server rejects the mutation.
//
// Mutations on the same key are serialized by a per-key lock. A second toggle
// takes the lock before reading the previous snapshot, so it always computes
// from the first toggle's optimistic state (or its rollback) and a stale read
// can never overwrite a newer optimistic write. Reads never take the per-key
// lock, the optimistic state is visible immediately.
type EngagementCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	locks   map[string]*sync.Mutex
}

func NewEngagementCache() *EngagementCache {
	return &EngagementCache{
		entries: map[string]cacheEntry{},
		locks:   map[string]*sync.Mutex{},
	}
}

// Get returns the cached state and whether the key is known.
func (c *EngagementCache) Get(key string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.entries[key]
	return entry.state, entry.known
}

// Set replaces the cached state, used when fresh server state arrives.
func (c *EngagementCache) Set(key string, state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{state: state, known: true}
}

func (c *EngagementCache) restore(key string, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry.known {
		c.entries[key] = entry
	} else {
		delete(c.entries, key)
	}
}

func (c *EngagementCache) lockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// Mutate runs one optimistic toggle: it serializes against other mutations on
// the key, snapshots the current state, writes speculate(previous) into the
// cache, then runs commit. On commit failure the snapshot is restored and the
// error returned.
func (c *EngagementCache) Mutate(key string, speculate func(prev State) State, commit func() error) error {
	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	snapshot := c.entries[key]
	c.entries[key] = cacheEntry{state: speculate(snapshot.state), known: true}
	c.mu.Unlock()

	if err := commit(); err != nil {
		c.restore(key, snapshot)
		return err
	}
	return nil
}
