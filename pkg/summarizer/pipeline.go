package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/embedding"
	"ai-blog-summarizer-be/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type Source string

const (
	SourceSemanticCache Source = "semantic_cache"
	SourceFullTextCache Source = "full_text_cache"
	SourceLLM           Source = "llm"
)

const defaultMaxParallel = 4

// Embedder is satisfied by *embedding.Generator.
type Embedder interface {
	Generate(ctx context.Context, text string) (embedding.Embedding, error)
}

type Result struct {
	Summary      string
	Source       Source
	Model        string
	WordCount    int
	Ratio        float64
	Chunks       int
	FailedChunks int
	Similarity   float64
}

// ChunkResult carries the outcome of one chunk so failures stay local to it.
type ChunkResult struct {
	Index   int
	Summary string
	Err     error
}

type Pipeline struct {
	embedder    Embedder
	semantic    *cache.SemanticCache
	store       cache.Store
	chunks      *ChunkSummarizer
	combiner    *Combiner
	catalog     ModelCatalog
	overlap     int
	maxParallel int
	ttl         time.Duration
	log         logger.ILogger
}

type PipelineOption func(*Pipeline)

func WithChunkOverlap(words int) PipelineOption {
	return func(p *Pipeline) { p.overlap = words }
}

func WithModelCatalog(c ModelCatalog) PipelineOption {
	return func(p *Pipeline) { p.catalog = c }
}

// WithMaxParallel bounds concurrent chunk calls for one document.
func WithMaxParallel(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxParallel = n
		}
	}
}

func WithResultTTL(ttl time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// NewPipeline wires the stages. embedder and semantic may be nil, which
// disables the semantic cache.
func NewPipeline(
	chunks *ChunkSummarizer,
	store cache.Store,
	embedder Embedder,
	semantic *cache.SemanticCache,
	log logger.ILogger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		embedder:    embedder,
		semantic:    semantic,
		store:       store,
		chunks:      chunks,
		combiner:    NewCombiner(chunks, log),
		catalog:     DefaultModelCatalog(),
		maxParallel: defaultMaxParallel,
		ttl:         cache.DefaultTTL,
		log:         log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summarize runs preprocess → semantic cache → full-text cache → chunk →
// per-chunk summaries → combine → cache store. An empty model selects one by size.
func (p *Pipeline) Summarize(ctx context.Context, text, model string) (Result, error) {
	ctx, span := otel.Tracer("summarizer").Start(ctx, "Pipeline.Summarize")
	defer span.End()

	clean := utils.PreprocessText(text)
	if clean == "" {
		return Result{}, ErrEmptyInput
	}

	words := utils.CountWords(clean)
	span.SetAttributes(attribute.Int("summarizer.words", words))

	emb, useSemantic := p.embed(ctx, clean)
	if useSemantic {
		match, ok, err := p.semantic.Lookup(ctx, emb.Vector)
		if err != nil {
			p.log.Warn("SEMANTIC_CACHE", "Lookup failed", map[string]interface{}{"error": err.Error()})
		} else if ok {
			span.SetAttributes(attribute.String("summarizer.source", string(SourceSemanticCache)))
			return Result{
				Summary:    match.Summary,
				Source:     SourceSemanticCache,
				WordCount:  words,
				Similarity: match.Similarity,
			}, nil
		}
	}

	if model == "" {
		model = SelectModel(words)
	}

	res := Result{Model: model, WordCount: words}

	fullKey := utils.HashKey(cache.PrefixFullText, clean)
	if cached, ok, err := p.store.Get(ctx, fullKey); err == nil && ok && cached != "" {
		res.Summary = cached
		res.Source = SourceFullTextCache
		p.storeSemantic(ctx, clean, emb, useSemantic, cached)
		return res, nil
	}

	chunker := utils.NewAdaptiveChunker(p.catalog.WordLimit(model), utils.WithOverlap(p.overlap))
	chunks := chunker.Chunk(clean)
	res.Chunks = len(chunks)
	res.Ratio = CompressionRatio(clean)

	results := p.summarizeChunks(ctx, chunks, res.Ratio, model)

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			res.FailedChunks++
			continue
		}
		parts = append(parts, r.Summary)
	}

	summary, err := p.combiner.Combine(ctx, parts, model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "all chunks failed")
		if errors.Is(err, ErrSummarizationFailed) {
			return res, err
		}
		return res, fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	res.Summary = summary
	res.Source = SourceLLM

	if err := p.store.Set(ctx, fullKey, summary, p.ttl); err != nil {
		p.log.Warn("SUMMARIZER", "Failed to cache full-text summary", map[string]interface{}{"error": err.Error()})
	}
	p.storeSemantic(ctx, clean, emb, useSemantic, summary)

	p.log.Info("SUMMARIZER", "Summary generated", map[string]interface{}{
		"model":         model,
		"words":         words,
		"chunks":        res.Chunks,
		"failed_chunks": res.FailedChunks,
		"ratio":         res.Ratio,
	})

	return res, nil
}

// summarizeChunks fans out one call per chunk and returns results in chunk order.
func (p *Pipeline) summarizeChunks(ctx context.Context, chunks []utils.Chunk, ratio float64, model string) []ChunkResult {
	results := make([]ChunkResult, len(chunks))

	var g errgroup.Group
	g.SetLimit(p.maxParallel)

	for i, c := range chunks {
		g.Go(func() error {
			summary, err := p.chunks.Summarize(ctx, c.Text, ratio, model)
			results[i] = ChunkResult{Index: c.Index, Summary: summary, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) embed(ctx context.Context, text string) (embedding.Embedding, bool) {
	if p.embedder == nil || p.semantic == nil {
		return embedding.Embedding{}, false
	}
	emb, err := p.embedder.Generate(ctx, text)
	if err != nil {
		p.log.Warn("EMBEDDING", "Embedding failed, semantic cache skipped", map[string]interface{}{"error": err.Error()})
		return embedding.Embedding{}, false
	}
	if emb.Degraded {
		p.log.Warn("SEMANTIC_CACHE", "Degraded embedding, semantic cache skipped", nil)
		return emb, false
	}
	return emb, true
}

func (p *Pipeline) storeSemantic(ctx context.Context, text string, emb embedding.Embedding, ok bool, summary string) {
	if !ok {
		return
	}
	if err := p.semantic.Put(ctx, text, emb.Vector, summary); err != nil {
		p.log.Warn("SEMANTIC_CACHE", "Failed to store entry", map[string]interface{}{"error": err.Error()})
	}
}
