package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/repository/contract"
	"ai-blog-summarizer-be/pkg/events"
	"ai-blog-summarizer-be/pkg/queue"
)

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	// Consume subscribes once and starts the workers. It returns after the
	// subscription is live so callers can publish right away.
	Consume(ctx context.Context) error
	// Wait blocks until every worker has drained after ctx is cancelled.
	Wait()
}

type consumerService struct {
	jobQueue   queue.Queue
	jobs       contract.JobRepository
	pipeline   Summarizer
	publisher  EventPublisher
	workers    int
	jobTimeout time.Duration
	log        logger.ILogger
	wg         sync.WaitGroup
}

// NewConsumerService builds the job workers. publisher may be nil.
func NewConsumerService(
	jobQueue queue.Queue,
	jobs contract.JobRepository,
	pipeline Summarizer,
	publisher EventPublisher,
	workers int,
	jobTimeout time.Duration,
	log logger.ILogger,
) IConsumerService {
	if workers <= 0 {
		workers = 1
	}
	return &consumerService{
		jobQueue:   jobQueue,
		jobs:       jobs,
		pipeline:   pipeline,
		publisher:  publisher,
		workers:    workers,
		jobTimeout: jobTimeout,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.jobQueue.Subscribe(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < cs.workers; i++ {
		cs.wg.Add(1)
		go func(worker int) {
			defer cs.wg.Done()
			for payload := range messages {
				cs.processMessage(ctx, worker, payload)
			}
		}(i)
	}

	cs.log.Info("JOB_WORKER", "Workers started", map[string]interface{}{"workers": cs.workers})
	return nil
}

func (cs *consumerService) Wait() {
	cs.wg.Wait()
}

func (cs *consumerService) processMessage(ctx context.Context, worker int, payload []byte) {
	var msg dto.SummarizeJobMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		// Nothing to retry against: delivery is at-most-once.
		cs.log.Error("JOB_WORKER", "Failed to unmarshal job message", map[string]interface{}{"error": err.Error()})
		return
	}

	start := time.Now()
	cs.log.Info("JOB_WORKER", "Processing job", map[string]interface{}{
		"job_id": msg.JobId,
		"worker": worker,
		"texts":  len(msg.Texts),
	})

	job, err := cs.jobs.FindByID(ctx, msg.JobId)
	if err != nil {
		cs.log.Warn("JOB_WORKER", "Failed to load job record", map[string]interface{}{"job_id": msg.JobId, "error": err.Error()})
	}
	if job != nil && job.Status != entity.JobStatusPending {
		cs.log.Warn("JOB_WORKER", "Job already finished, skipping", map[string]interface{}{
			"job_id": msg.JobId,
			"status": string(job.Status),
		})
		return
	}
	if job == nil {
		job = &entity.SummarizationJob{
			Id:        msg.JobId,
			Model:     msg.Model,
			Batch:     msg.Batch,
			TextCount: len(msg.Texts),
			CreatedAt: start.UTC(),
		}
	}

	// The deadline runs from enqueue time, the clock GetStatus times out on.
	var (
		summaries []string
		deadline  time.Time
	)
	if cs.jobTimeout > 0 {
		deadline = job.CreatedAt.Add(cs.jobTimeout)
	}
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		err = ErrJobTimedOut
	} else {
		jobCtx := ctx
		if !deadline.IsZero() {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithDeadline(ctx, deadline)
			defer cancel()
		}
		summaries, err = cs.summarizeAll(jobCtx, msg)
		if !deadline.IsZero() && (errors.Is(err, context.DeadlineExceeded) || !time.Now().Before(deadline)) {
			err = ErrJobTimedOut
		}
	}

	completedAt := time.Now().UTC()
	job.CompletedAt = &completedAt
	if err != nil {
		job.Status = entity.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = entity.JobStatusCompleted
		if msg.Batch {
			job.Summaries = summaries
		} else {
			job.Summary = summaries[0]
		}
	}

	// ctx may already be cancelled on shutdown; the final state is still recorded.
	saveCtx := context.WithoutCancel(ctx)
	if saveErr := cs.jobs.Save(saveCtx, job); saveErr != nil {
		cs.log.Error("JOB_WORKER", "Failed to save job result", map[string]interface{}{
			"job_id": msg.JobId,
			"error":  saveErr.Error(),
		})
	}

	if err != nil {
		cs.log.Error("JOB_WORKER", "Job failed", map[string]interface{}{"job_id": msg.JobId, "error": err.Error()})
		cs.publish(saveCtx, events.NewSummaryJobFailed(msg.JobId, err.Error()))
		return
	}

	elapsed := time.Since(start)
	cs.log.Info("JOB_WORKER", "Job completed", map[string]interface{}{
		"job_id":      msg.JobId,
		"duration_ms": elapsed.Milliseconds(),
	})
	cs.publish(saveCtx, events.NewSummaryJobCompleted(msg.JobId, len(msg.Texts), elapsed))
}

// summarizeAll runs the texts of one job in order. Any failure fails the job.
func (cs *consumerService) summarizeAll(ctx context.Context, msg dto.SummarizeJobMessage) ([]string, error) {
	if len(msg.Texts) == 0 {
		return nil, ErrEmptyText
	}

	summaries := make([]string, 0, len(msg.Texts))
	for i, text := range msg.Texts {
		res, err := cs.pipeline.Summarize(ctx, text, msg.Model)
		if err != nil {
			if msg.Batch {
				return nil, fmt.Errorf("text %d: %w", i, err)
			}
			return nil, err
		}
		summaries = append(summaries, res.Summary)
	}
	return summaries, nil
}

func (cs *consumerService) publish(ctx context.Context, evt events.Event) {
	if cs.publisher == nil {
		return
	}
	if err := cs.publisher.Publish(ctx, evt); err != nil {
		cs.log.Warn("JOB_WORKER", "Failed to publish job event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
