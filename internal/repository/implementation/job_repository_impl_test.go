package implementation

import (
	"context"
	"testing"
	"time"

	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	repo := NewJobRepository(store, time.Hour)

	job := &entity.SummarizationJob{
		Id:        "abc",
		Status:    entity.JobStatusCompleted,
		Batch:     true,
		Summaries: []string{"one", "two"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, job))

	raw, ok, err := store.Get(ctx, "job:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"status":"completed"`)

	got, err := repo.FindByID(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.Summaries, got.Summaries)
	assert.True(t, job.CreatedAt.Equal(got.CreatedAt))
}

func TestJobRepositoryUnknownID(t *testing.T) {
	repo := NewJobRepository(cache.NewMemoryStore(), 0)

	got, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
