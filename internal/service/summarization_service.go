package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/repository/contract"
	"ai-blog-summarizer-be/pkg/queue"
	"ai-blog-summarizer-be/pkg/summarizer"

	"github.com/google/uuid"
)

// Summarizer is satisfied by *summarizer.Pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, text, model string) (summarizer.Result, error)
}

type ISummarizationService interface {
	Enqueue(ctx context.Context, req *dto.EnqueueSummaryRequest) (*dto.EnqueueSummaryResponse, error)
	GetStatus(ctx context.Context, jobId string) (*dto.SummaryStatusResponse, error)
	Summarize(ctx context.Context, req *dto.SyncSummaryRequest) (*dto.SyncSummaryResponse, error)
	GenerateEmbedding(ctx context.Context, req *dto.EmbeddingRequest) (*dto.EmbeddingResponse, error)
}

type summarizationService struct {
	pipeline     Summarizer
	embedder     summarizer.Embedder
	jobQueue     queue.Queue
	jobs         contract.JobRepository
	defaultModel string
	jobTimeout   time.Duration
	log          logger.ILogger
	now          func() time.Time
}

func NewSummarizationService(
	pipeline Summarizer,
	embedder summarizer.Embedder,
	jobQueue queue.Queue,
	jobs contract.JobRepository,
	defaultModel string,
	jobTimeout time.Duration,
	log logger.ILogger,
) ISummarizationService {
	return &summarizationService{
		pipeline:     pipeline,
		embedder:     embedder,
		jobQueue:     jobQueue,
		jobs:         jobs,
		defaultModel: defaultModel,
		jobTimeout:   jobTimeout,
		log:          log,
		now:          time.Now,
	}
}

func (s *summarizationService) Enqueue(ctx context.Context, req *dto.EnqueueSummaryRequest) (*dto.EnqueueSummaryResponse, error) {
	texts, batch := req.Texts, true
	if len(texts) == 0 {
		texts, batch = []string{req.Text}, false
	}
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, ErrEmptyText
		}
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	job := &entity.SummarizationJob{
		Id:        uuid.NewString(),
		Status:    entity.JobStatusPending,
		Model:     model,
		Batch:     batch,
		TextCount: len(texts),
		CreatedAt: s.now().UTC(),
	}
	// The record must exist before a worker can pick the job up.
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.SummarizeJobMessage{
		JobId: job.Id,
		Texts: texts,
		Batch: batch,
		Model: model,
	})
	if err != nil {
		return nil, err
	}

	if err := s.jobQueue.Publish(ctx, payload); err != nil {
		job.Status = entity.JobStatusFailed
		job.Error = "enqueue failed"
		if saveErr := s.jobs.Save(ctx, job); saveErr != nil {
			s.log.Error("JOB_WORKER", "Failed to mark job failed", map[string]interface{}{
				"job_id": job.Id,
				"error":  saveErr.Error(),
			})
		}
		return nil, fmt.Errorf("enqueue job %s: %w", job.Id, err)
	}

	s.log.Info("JOB_WORKER", "Job enqueued", map[string]interface{}{
		"job_id": job.Id,
		"texts":  len(texts),
		"model":  model,
	})

	return &dto.EnqueueSummaryResponse{
		JobId:  job.Id,
		Status: string(job.Status),
	}, nil
}

func (s *summarizationService) GetStatus(ctx context.Context, jobId string) (*dto.SummaryStatusResponse, error) {
	job, err := s.jobs.FindByID(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return &dto.SummaryStatusResponse{
			JobId:  jobId,
			Status: string(entity.JobStatusNotFound),
		}, nil
	}

	res := &dto.SummaryStatusResponse{
		JobId:     job.Id,
		Status:    string(job.Status),
		Summary:   job.Summary,
		Summaries: job.Summaries,
		Error:     job.Error,
	}

	if job.Status == entity.JobStatusPending && s.jobTimeout > 0 && s.now().Sub(job.CreatedAt) > s.jobTimeout {
		res.Status = string(entity.JobStatusFailed)
		res.Error = ErrJobTimedOut.Error()
	}

	return res, nil
}

func (s *summarizationService) Summarize(ctx context.Context, req *dto.SyncSummaryRequest) (*dto.SyncSummaryResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	res, err := s.pipeline.Summarize(ctx, req.Text, model)
	if err != nil {
		return nil, err
	}

	return &dto.SyncSummaryResponse{
		Summary:      res.Summary,
		Source:       string(res.Source),
		Model:        res.Model,
		WordCount:    res.WordCount,
		Ratio:        res.Ratio,
		Chunks:       res.Chunks,
		FailedChunks: res.FailedChunks,
		Similarity:   res.Similarity,
	}, nil
}

func (s *summarizationService) GenerateEmbedding(ctx context.Context, req *dto.EmbeddingRequest) (*dto.EmbeddingResponse, error) {
	emb, err := s.embedder.Generate(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &dto.EmbeddingResponse{
		Embedding: emb.Vector,
		Dimension: len(emb.Vector),
		Degraded:  emb.Degraded,
	}, nil
}
