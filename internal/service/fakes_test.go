package service

import (
	"context"
	"errors"
	"sync"

	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/repository/specification"
	"ai-blog-summarizer-be/pkg/embedding"
	"ai-blog-summarizer-be/pkg/events"
	"ai-blog-summarizer-be/pkg/summarizer"

	"github.com/google/uuid"
)

type fakePipeline struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakePipeline) Summarize(_ context.Context, text, model string) (summarizer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if err, ok := f.fail[text]; ok {
		return summarizer.Result{}, err
	}
	return summarizer.Result{Summary: "summary of " + text, Source: summarizer.SourceLLM, Model: model}, nil
}

// fakeEmbedder returns fixed vectors by text and a default axis otherwise.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	degraded map[string]bool
	calls    []string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{}, degraded: map[string]bool{}}
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) (embedding.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if text == "" {
		return embedding.Embedding{}, embedding.ErrInvalidInput
	}
	if v, ok := f.vectors[text]; ok {
		return embedding.Embedding{Vector: v, Degraded: f.degraded[text]}, nil
	}
	return embedding.Embedding{Vector: []float32{0, 0, 1}, Degraded: f.degraded[text]}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeDocumentRepository struct {
	mu   sync.Mutex
	docs []*entity.Document
}

func (r *fakeDocumentRepository) Create(_ context.Context, d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Id == uuid.Nil {
		d.Id = uuid.New()
	}
	cp := *d
	r.docs = append(r.docs, &cp)
	return nil
}

func (r *fakeDocumentRepository) Update(_ context.Context, d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.docs {
		if existing.Id == d.Id {
			cp := *d
			r.docs[i] = &cp
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeDocumentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.docs {
		if existing.Id == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeDocumentRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.docs {
		if matches(d, specs) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeDocumentRepository) get(id uuid.UUID) *entity.Document {
	d, _ := r.FindOne(context.Background(), specification.ByID{ID: id})
	return d
}

func matches(d *entity.Document, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.ByAuthor:
			if d.Author != spec.Author {
				return false
			}
		case specification.ByTitle:
			if d.Title != spec.Title {
				return false
			}
		case specification.MissingEmbeddings:
			if !d.MissingEmbeddings() {
				return false
			}
		case specification.WithEmbeddings:
			if len(d.TitleEmbedding) == 0 && len(d.ContentEmbedding) == 0 && len(d.SummaryEmbedding) == 0 {
				return false
			}
		}
	}
	return true
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakeEventPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakeEventPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type failingQueue struct{}

func (failingQueue) Publish(context.Context, []byte) error { return errors.New("broker down") }
func (failingQueue) Subscribe(context.Context) (<-chan []byte, error) {
	return nil, errors.New("broker down")
}
func (failingQueue) Close() error { return nil }
