package keychain

import "sync"

// Cache memoizes keychain construction and hardened child derivation. Both
// maps are keyed by the canonical hex master key, and every slot is written
// at most once: if two goroutines race on the same slot, both derive the
// same value and the first store wins. Entries are never evicted.
type Cache struct {
	mu sync.Mutex

	// keychains maps a master key to its root keychain.
	keychains map[string]Keychain

	// children maps a master key to its derived children by index.
	children map[string]map[uint32]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		keychains: make(map[string]Keychain),
		children:  make(map[string]map[uint32]string),
	}
}

// fetchKeychain returns the cached root keychain for the master key.
func (c *Cache) fetchKeychain(master string) (Keychain, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kc, ok := c.keychains[master]

	return kc, ok
}

// storeKeychain caches kc unless another keychain was stored for the same
// master key first, in which case the earlier one is returned.
func (c *Cache) storeKeychain(master string, kc Keychain) Keychain {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.keychains[master]; ok {
		return existing
	}
	c.keychains[master] = kc

	return kc
}

// fetchChild returns the cached child key at index.
func (c *Cache) fetchChild(master string, index uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	child, ok := c.children[master][index]

	return child, ok
}

// storeChild caches a derived child key. An existing entry is kept.
func (c *Cache) storeChild(master string, index uint32, child string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	byIndex, ok := c.children[master]
	if !ok {
		byIndex = make(map[uint32]string)
		c.children[master] = byIndex
	}

	if existing, ok := byIndex[index]; ok {
		return existing
	}
	byIndex[index] = child

	return child
}

// Stats returns the number of cached keychains and cached child keys.
func (c *Cache) Stats() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var numChildren int
	for _, byIndex := range c.children {
		numChildren += len(byIndex)
	}

	return len(c.keychains), numChildren
}
