package cache

import (
	"context"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
)

// FailSafeStore wraps a Store so that backend failures degrade to misses.
// Errors are logged and never returned to the caller.
type FailSafeStore struct {
	inner Store
	log   logger.ILogger
}

func NewFailSafeStore(inner Store, log logger.ILogger) *FailSafeStore {
	return &FailSafeStore{inner: inner, log: log}
}

func (s *FailSafeStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok, err := s.inner.Get(ctx, key)
	if err != nil {
		s.log.Warn("CACHE", "Get failed, treating as miss", map[string]interface{}{"key": key, "error": err.Error()})
		return "", false, nil
	}
	return val, ok, nil
}

func (s *FailSafeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.inner.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("CACHE", "Set failed, entry dropped", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return nil
}

func (s *FailSafeStore) Delete(ctx context.Context, keys ...string) error {
	if err := s.inner.Delete(ctx, keys...); err != nil {
		s.log.Warn("CACHE", "Delete failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
	return nil
}

func (s *FailSafeStore) Scan(ctx context.Context, prefix string) (map[string]string, error) {
	entries, err := s.inner.Scan(ctx, prefix)
	if err != nil {
		s.log.Warn("CACHE", "Scan failed, treating as empty", map[string]interface{}{"prefix": prefix, "error": err.Error()})
		return map[string]string{}, nil
	}
	return entries, nil
}

func (s *FailSafeStore) Close() error {
	return s.inner.Close()
}
