package cache

import (
	"context"
	"encoding/json"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/similarity"
	"ai-blog-summarizer-be/pkg/utils"
)

const DefaultSemanticThreshold = 0.95

type semanticEntry struct {
	Embedding []float32 `json:"embedding"`
	Summary   string    `json:"summary"`
}

type SemanticMatch struct {
	Key        string
	Summary    string
	Similarity float64
}

// SemanticCache stores summaries next to the embedding of their source text
// and answers lookups by similarity instead of key equality.
// Lookup is a linear scan over a snapshot of all entries.
type SemanticCache struct {
	store     Store
	threshold float64
	ttl       time.Duration
	log       logger.ILogger
}

func NewSemanticCache(store Store, threshold float64, ttl time.Duration, log logger.ILogger) *SemanticCache {
	if threshold <= 0 {
		threshold = DefaultSemanticThreshold
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SemanticCache{store: store, threshold: threshold, ttl: ttl, log: log}
}

// Put records summary under summary-embedding:<sha256(text)>.
func (c *SemanticCache) Put(ctx context.Context, text string, embedding []float32, summary string) error {
	data, err := json.Marshal(semanticEntry{Embedding: embedding, Summary: summary})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, utils.HashKey(PrefixSummaryEmbedding, text), string(data), c.ttl)
}

// Lookup returns the entry most similar to embedding, provided its similarity
// reaches the threshold.
func (c *SemanticCache) Lookup(ctx context.Context, embedding []float32) (SemanticMatch, bool, error) {
	entries, err := c.store.Scan(ctx, PrefixSummaryEmbedding+":")
	if err != nil {
		return SemanticMatch{}, false, err
	}

	var best SemanticMatch
	found := false

	for key, raw := range entries {
		var entry semanticEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			c.log.Warn("SEMANTIC_CACHE", "Skipping malformed entry", map[string]interface{}{"key": key})
			continue
		}

		sim := similarity.Cosine(embedding, entry.Embedding)
		if sim < c.threshold {
			continue
		}
		if !found || sim > best.Similarity || (sim == best.Similarity && key < best.Key) {
			best = SemanticMatch{Key: key, Summary: entry.Summary, Similarity: sim}
			found = true
		}
	}

	if found {
		c.log.Debug("SEMANTIC_CACHE", "Hit", map[string]interface{}{
			"key":        best.Key,
			"similarity": best.Similarity,
			"scanned":    len(entries),
		})
	}

	return best, found, nil
}
