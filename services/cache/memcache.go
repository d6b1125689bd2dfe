package cache

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheCache implements URLCache on top of memcache, for deployments
// where several sequential runs on different hosts share one dedup set.
// Entries are written without expiration; the set is append-only.
type MemcacheCache struct {
	client *memcache.Client
	prefix string
}

// NewMemcacheCache creates a memcache-backed URL cache
func NewMemcacheCache(serverAddr, prefix string) *MemcacheCache {
	return &MemcacheCache{
		client: memcache.New(serverAddr),
		prefix: prefix,
	}
}

func (m *MemcacheCache) key(url string) string {
	return m.prefix + url
}

// Contains reports whether the URL was recorded before. A memcache error
// counts as a miss so a flaky cache degrades to re-fetching, never to
// dropping ads.
func (m *MemcacheCache) Contains(url string) bool {
	_, err := m.client.Get(m.key(url))
	return err == nil
}

// Add records the URL
func (m *MemcacheCache) Add(url string) error {
	return m.client.Set(&memcache.Item{
		Key:   m.key(url),
		Value: []byte("1"),
	})
}

// Close is a no-op; the memcache client holds no persistent connection state
func (m *MemcacheCache) Close() error {
	return nil
}
