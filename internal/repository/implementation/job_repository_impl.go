package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/repository/contract"
	"ai-blog-summarizer-be/pkg/cache"
)

// JobRepositoryImpl keeps job records in the shared cache store so every
// worker process sees the same state. Errors are returned, not degraded,
// since a lost job record cannot be recomputed.
type JobRepositoryImpl struct {
	store cache.Store
	ttl   time.Duration
}

func NewJobRepository(store cache.Store, ttl time.Duration) contract.JobRepository {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &JobRepositoryImpl{store: store, ttl: ttl}
}

func jobKey(id string) string {
	return cache.PrefixJob + ":" + id
}

func (r *JobRepositoryImpl) Save(ctx context.Context, job *entity.SummarizationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.Id, err)
	}
	if err := r.store.Set(ctx, jobKey(job.Id), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save job %s: %w", job.Id, err)
	}
	return nil
}

func (r *JobRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.SummarizationJob, error) {
	raw, ok, err := r.store.Get(ctx, jobKey(id))
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	var job entity.SummarizationJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}
