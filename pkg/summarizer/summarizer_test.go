package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/embedding"
	"ai-blog-summarizer-be/pkg/llm"
	"ai-blog-summarizer-be/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type llmCall struct {
	system    string
	user      string
	maxTokens int
	model     string
	temp      float64
}

// fakeLLM answers with respond(callIndex, chunkText).
type fakeLLM struct {
	mu      sync.Mutex
	calls   []llmCall
	respond func(n int, text string) (string, error)
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	o := &llm.Options{}
	for _, opt := range opts {
		opt(o)
	}

	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, llmCall{
		system:    history[0].Content,
		user:      history[1].Content,
		maxTokens: o.MaxTokens,
		model:     o.Model,
		temp:      o.Temperature,
	})
	f.mu.Unlock()

	return f.respond(n, strings.TrimPrefix(history[1].Content, userPromptPrefix))
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "system"}, {Role: "user", Content: prompt}}, opts...)
}

func (f *fakeLLM) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEmbedder struct {
	vec      []float32
	degraded bool
}

func (f fakeEmbedder) Generate(context.Context, string) (embedding.Embedding, error) {
	return embedding.Embedding{Vector: f.vec, Degraded: f.degraded}, nil
}

func newPipeline(provider llm.LLMProvider, store cache.Store, emb Embedder, opts ...PipelineOption) (*Pipeline, *cache.SemanticCache) {
	log := logger.NewNopLogger()
	sc := cache.NewSemanticCache(store, 0.95, time.Hour, log)
	chunks := NewChunkSummarizer(provider, store, time.Hour, log)
	if emb == nil {
		return NewPipeline(chunks, store, nil, nil, log, opts...), nil
	}
	return NewPipeline(chunks, store, emb, sc, log, opts...), sc
}

// redundantDocument builds 1500 words where 600 come from repeated paragraphs.
func redundantDocument() string {
	var paras []string
	for i := 0; i < 90; i++ {
		paras = append(paras, fmt.Sprintf("Topic %d covers ideas about systems and design today clearly.", i))
	}
	for i := 0; i < 60; i++ {
		paras = append(paras, paras[i])
	}
	return strings.Join(paras, "\n\n")
}

func TestRatioBuckets(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{0, 0.30}, {300, 0.30}, {301, 0.20}, {700, 0.20}, {701, 0.15}, {5000, 0.15},
	}
	prev := 1.0
	for _, tt := range tests {
		got := RatioForWordCount(tt.words)
		assert.Equal(t, tt.want, got, "words=%d", tt.words)
		assert.LessOrEqual(t, got, prev, "non-increasing")
		prev = got
	}
	assert.Equal(t, 0.30, CompressionRatio("a few words"))
}

func TestTokenBudget(t *testing.T) {
	assert.Equal(t, 675, TokenBudget(900, 0.15))
	assert.Equal(t, 1, TokenBudget(1, 0.15))
	assert.Equal(t, 1, TokenBudget(0, 0.3))
}

func TestModelSelectionAndWordLimit(t *testing.T) {
	assert.Equal(t, ModelSmall, SelectModel(299))
	assert.Equal(t, ModelMedium, SelectModel(300))
	assert.Equal(t, ModelMedium, SelectModel(999))
	assert.Equal(t, ModelLarge, SelectModel(1000))

	c := DefaultModelCatalog()
	assert.Equal(t, 55853, c.WordLimit(ModelLarge))
	assert.Equal(t, 1759, c.WordLimit(ModelSmall))
	assert.Equal(t, 1759, c.WordLimit("unknown"))
}

func TestChunkSummarizer(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "  a summary \n", nil }}
	store := cache.NewMemoryStore()
	s := NewChunkSummarizer(provider, store, time.Hour, logger.NewNopLogger())
	ctx := context.Background()

	text := strings.Repeat("word ", 100)
	out, err := s.Summarize(ctx, text, 0.2, "mistral-7b")
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)

	require.Len(t, provider.calls, 1)
	call := provider.calls[0]
	assert.Equal(t, "You are an assistant that summarizes text.", call.system)
	assert.Equal(t, "Summarize this text:\n\n"+text, call.user)
	assert.Equal(t, 100, call.maxTokens)
	assert.Equal(t, "mistral-7b", call.model)
	assert.Equal(t, 0.7, call.temp)

	cached, ok, _ := store.Get(ctx, utils.HashKey(cache.PrefixChunk, text))
	assert.True(t, ok)
	assert.Equal(t, "a summary", cached)

	out, err = s.Summarize(ctx, text, 0.2, "mistral-7b")
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)
	assert.Equal(t, 1, provider.count(), "served from exact cache")
}

func TestChunkSummarizerFailures(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	failing := &fakeLLM{respond: func(int, string) (string, error) { return "", errors.New("rate limit") }}
	_, err := NewChunkSummarizer(failing, cache.NewMemoryStore(), time.Hour, log).Summarize(ctx, "text", 0.3, "m")
	assert.Error(t, err)

	blank := &fakeLLM{respond: func(int, string) (string, error) { return "   ", nil }}
	store := cache.NewMemoryStore()
	_, err = NewChunkSummarizer(blank, store, time.Hour, log).Summarize(ctx, "text", 0.3, "m")
	assert.ErrorIs(t, err, ErrEmptySummary)
	entries, _ := store.Scan(ctx, cache.PrefixChunk)
	assert.Empty(t, entries)

	_, err = NewChunkSummarizer(blank, store, time.Hour, log).Summarize(ctx, "  ", 0.3, "m")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCombiner(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	ok := &fakeLLM{respond: func(int, string) (string, error) { return "final", nil }}
	c := NewCombiner(NewChunkSummarizer(ok, cache.NewMemoryStore(), time.Hour, log), log)
	out, err := c.Combine(ctx, []string{"one", "", "two"}, "m")
	require.NoError(t, err)
	assert.Equal(t, "final", out)
	assert.Equal(t, "Summarize this text:\n\none two", ok.calls[0].user)

	down := &fakeLLM{respond: func(int, string) (string, error) { return "", errors.New("unavailable") }}
	c = NewCombiner(NewChunkSummarizer(down, cache.NewMemoryStore(), time.Hour, log), log)
	out, err = c.Combine(ctx, []string{"one", "two"}, "m")
	require.NoError(t, err)
	assert.Equal(t, "one two", out, "degrades to the combined text")

	_, err = c.Combine(ctx, []string{"", "  "}, "m")
	assert.ErrorIs(t, err, ErrSummarizationFailed)
}

func TestPipelineEndToEnd(t *testing.T) {
	provider := &fakeLLM{respond: func(n int, _ string) (string, error) {
		if n == 0 {
			return "Topics cover systems and design ideas.", nil
		}
		return "Systems and design.", nil
	}}
	p, _ := newPipeline(provider, cache.NewMemoryStore(), fakeEmbedder{vec: []float32{1, 0, 0}})

	input := redundantDocument()
	require.Equal(t, 1500, utils.CountWords(input))

	res, err := p.Summarize(context.Background(), input, ModelLarge)
	require.NoError(t, err)

	assert.Equal(t, SourceLLM, res.Source)
	assert.Equal(t, 900, res.WordCount)
	assert.Equal(t, 0.15, res.Ratio)
	assert.Equal(t, 1, res.Chunks)
	assert.Zero(t, res.FailedChunks)
	assert.Equal(t, 2, provider.count(), "one chunk call plus one combine call")
	assert.Equal(t, 675, provider.calls[0].maxTokens)
	assert.Equal(t, "Systems and design.", res.Summary)
	assert.Less(t, utils.CountWords(res.Summary), utils.CountWords(input))
}

func TestPipelineSemanticCacheHitSkipsLLM(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "fresh", nil }}
	store := cache.NewMemoryStore()
	p, sc := newPipeline(provider, store, fakeEmbedder{vec: []float32{1, 0.05, 0}})

	require.NoError(t, sc.Put(context.Background(), "an earlier article", []float32{1, 0, 0}, "summary A"))

	res, err := p.Summarize(context.Background(), "A slightly different article body.", "")
	require.NoError(t, err)
	assert.Equal(t, "summary A", res.Summary)
	assert.Equal(t, SourceSemanticCache, res.Source)
	assert.GreaterOrEqual(t, res.Similarity, 0.95)
	assert.Zero(t, provider.count())
}

func TestPipelineStoresSemanticEntry(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "short", nil }}
	store := cache.NewMemoryStore()
	p, _ := newPipeline(provider, store, fakeEmbedder{vec: []float32{0, 1, 0}})
	ctx := context.Background()

	_, err := p.Summarize(ctx, "Some text worth summarizing.", "")
	require.NoError(t, err)

	entries, err := store.Scan(ctx, cache.PrefixSummaryEmbedding+":")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	res, err := p.Summarize(ctx, "Some other text entirely.", "")
	require.NoError(t, err)
	assert.Equal(t, SourceSemanticCache, res.Source, "same vector, so the stored entry matches")
}

func TestPipelineDegradedEmbeddingBypassesSemanticCache(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "short", nil }}
	store := cache.NewMemoryStore()
	p, sc := newPipeline(provider, store, fakeEmbedder{vec: []float32{1, 0, 0}, degraded: true})
	ctx := context.Background()

	require.NoError(t, sc.Put(ctx, "x", []float32{1, 0, 0}, "would match"))

	res, err := p.Summarize(ctx, "Body text.", "")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, res.Source)

	entries, _ := store.Scan(ctx, cache.PrefixSummaryEmbedding+":")
	assert.Len(t, entries, 1, "degraded vectors are not stored")
}

func TestPipelineFullTextCache(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "short", nil }}
	p, _ := newPipeline(provider, cache.NewMemoryStore(), nil)
	ctx := context.Background()

	first, err := p.Summarize(ctx, "Repeatable text.\n\nRepeatable text.", "")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, first.Source)
	assert.Equal(t, ModelSmall, first.Model)
	calls := provider.count()

	second, err := p.Summarize(ctx, "  Repeatable   text.  ", "")
	require.NoError(t, err)
	assert.Equal(t, SourceFullTextCache, second.Source)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, calls, provider.count())
}

func TestPipelineAllChunksFail(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "", errors.New("service unavailable") }}
	store := cache.NewMemoryStore()
	p, _ := newPipeline(provider, store, nil)
	ctx := context.Background()

	_, err := p.Summarize(ctx, "Nothing will summarize this.", "")
	assert.ErrorIs(t, err, ErrSummarizationFailed)

	entries, _ := store.Scan(ctx, cache.PrefixFullText)
	assert.Empty(t, entries, "failures are not cached")
}

func TestPipelineEmptyInput(t *testing.T) {
	provider := &fakeLLM{respond: func(int, string) (string, error) { return "x", nil }}
	p, _ := newPipeline(provider, cache.NewMemoryStore(), nil)

	_, err := p.Summarize(context.Background(), "Copyright 2024\n\n  \n", "")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, provider.count())
}

func TestPipelineKeepsChunkOrder(t *testing.T) {
	// chunk calls echo the first word; the final pass fails so the combined text is visible
	provider := &fakeLLM{respond: func(_ int, text string) (string, error) {
		if strings.HasPrefix(text, "sum(") {
			return "", errors.New("timeout")
		}
		return "sum(" + strings.Fields(text)[0] + ")", nil
	}}
	catalog := ModelCatalog{"tiny": 30} // 12 words per chunk
	p, _ := newPipeline(provider, cache.NewMemoryStore(), nil, WithModelCatalog(catalog), WithMaxParallel(3))

	text := "alpha one two three four. bravo one two three four. charlie one two three four. " +
		"delta one two three four. echo one two three four. foxtrot one two three four."

	res, err := p.Summarize(context.Background(), text, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, "sum(alpha) sum(charlie) sum(echo)", res.Summary)
}

func TestPipelinePartialChunkFailure(t *testing.T) {
	provider := &fakeLLM{respond: func(_ int, text string) (string, error) {
		switch {
		case strings.HasPrefix(text, "charlie"):
			return "", errors.New("rate limit")
		case strings.HasPrefix(text, "sum("):
			return "", errors.New("timeout")
		}
		return "sum(" + strings.Fields(text)[0] + ")", nil
	}}
	p, _ := newPipeline(provider, cache.NewMemoryStore(), nil, WithModelCatalog(ModelCatalog{"tiny": 30}))

	text := "alpha one two three four. bravo one two three four. charlie one two three four. " +
		"delta one two three four. echo one two three four. foxtrot one two three four."

	res, err := p.Summarize(context.Background(), text, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedChunks)
	assert.Equal(t, "sum(alpha) sum(echo)", res.Summary)
}
