package contract

import (
	"context"

	"ai-blog-summarizer-be/internal/entity"
)

// JobRepository persists job records. FindByID returns nil, nil for unknown ids.
type JobRepository interface {
	Save(ctx context.Context, job *entity.SummarizationJob) error
	FindByID(ctx context.Context, id string) (*entity.SummarizationJob, error)
}
