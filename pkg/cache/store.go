package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is applied to cache entries and job records.
const DefaultTTL = 24 * time.Hour

// Key prefixes shared by every component that writes to a Store.
const (
	PrefixChunk            = "chunk"
	PrefixFullText         = "full-text"
	PrefixSummaryEmbedding = "summary-embedding"
	PrefixEmbedding        = "embedding"
	PrefixJob              = "job"
)

var ErrCacheUnavailable = errors.New("cache unavailable")

// Store is a string key/value store with per-entry TTL.
// Scan returns a point-in-time snapshot of every live entry whose key starts with prefix.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, prefix string) (map[string]string, error)
	Close() error
}
