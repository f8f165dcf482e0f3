package executor

import "sync"

// cacheKey is the pre-image of a memoized execution: the logical command
// and the privilege flag, never the built command line. Keying on the
// built line would split cache entries on backend-internal syntax.
type cacheKey struct {
	command string
	elevate bool
}

// resultCache memoizes command output per target for the process lifetime.
// Entries are write-once per key; there is no eviction or expiry. A
// diagnostic run is short and bounded by the number of distinct
// (target, command) pairs issued.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]map[cacheKey]string
}

func newResultCache() *resultCache {
	return &resultCache{
		entries: make(map[string]map[cacheKey]string),
	}
}

func (c *resultCache) get(target, command string, elevate bool) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out, ok := c.entries[target][cacheKey{command, elevate}]
	return out, ok
}

func (c *resultCache) put(target, command string, elevate bool, output string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[target] == nil {
		c.entries[target] = make(map[cacheKey]string)
	}
	c.entries[target][cacheKey{command, elevate}] = output
}
