package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory. Suitable for a single process
// running both the API and the workers.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	// Entries default to a day and expired items are purged every 10 minutes
	return &MemoryStore{
		cache: gocache.New(DefaultTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := s.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.cache.Delete(k)
	}
	return nil
}

// Scan copies unexpired items; go-cache's Items already returns a copy.
func (s *MemoryStore) Scan(_ context.Context, prefix string) (map[string]string, error) {
	result := make(map[string]string)
	for k, item := range s.cache.Items() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if str, ok := item.Object.(string); ok {
			result[k] = str
		}
	}
	return result, nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
