package bootstrap

import (
	"context"
	"testing"
	"time"

	"ai-blog-summarizer-be/internal/config"
	"ai-blog-summarizer-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreBackendSelection(t *testing.T) {
	// Nothing listens on port 1, so the Redis ping fails fast.
	const unreachableRedis = "redis://127.0.0.1:1/0"

	tests := []struct {
		name       string
		cache      string
		queue      string
		wantErr    bool
		wantMemory bool
	}{
		{"memory with channel queue", "memory", "channel", false, true},
		{"memory with nats queue", "memory", "nats", true, false},
		{"redis down with channel queue", "redis", "channel", false, true},
		{"redis down with nats queue", "redis", "nats", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.RedisURL = unreachableRedis
			cfg.Summarizer.CacheBackend = tt.cache
			cfg.Summarizer.QueueBackend = tt.queue

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			store, err := newStore(ctx, cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			defer store.Close()

			_, isMemory := store.(*cache.MemoryStore)
			assert.Equal(t, tt.wantMemory, isMemory)
		})
	}
}
