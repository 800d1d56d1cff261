package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/llm"
	"ai-blog-summarizer-be/pkg/similarity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	values []float32
	err    error
	calls  int
	inputs []string
}

func (f *fakeProvider) Generate(_ context.Context, text string) (*EmbeddingResponse, error) {
	f.calls++
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return nil, f.err
	}
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: f.values}}, nil
}

func newTestGenerator(p EmbeddingProvider, dim int) *Generator {
	return NewGenerator(p, cache.NewMemoryStore(), logger.NewNopLogger(), WithDimension(dim))
}

func TestGeneratorRejectsEmptyInput(t *testing.T) {
	p := &fakeProvider{values: []float32{1, 0}}
	g := newTestGenerator(p, 2)

	for _, in := range []string{"", "   \n\t"} {
		_, err := g.Generate(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, p.calls)
}

func TestGeneratorNormalizesAndCaches(t *testing.T) {
	p := &fakeProvider{values: []float32{3, 4}}
	g := newTestGenerator(p, 2)
	ctx := context.Background()

	emb, err := g.Generate(ctx, "hello world")
	require.NoError(t, err)
	assert.False(t, emb.Degraded)
	assert.InDelta(t, 0.6, emb.Vector[0], 1e-6)
	assert.InDelta(t, 0.8, emb.Vector[1], 1e-6)

	again, err := g.Generate(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, emb.Vector, again.Vector)
	assert.Equal(t, 1, p.calls, "second call served from cache")
}

func TestGeneratorTruncatesInput(t *testing.T) {
	p := &fakeProvider{values: []float32{1, 1}}
	g := newTestGenerator(p, 2)
	ctx := context.Background()

	long := strings.Repeat("é", 600)
	_, err := g.Generate(ctx, long)
	require.NoError(t, err)
	require.Len(t, p.inputs, 1)
	assert.Equal(t, MaxInputChars, len([]rune(p.inputs[0])))

	// same 512-char prefix hits the same cache entry
	_, err = g.Generate(ctx, long+" with a different tail")
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestGeneratorMatchesDimension(t *testing.T) {
	short := &fakeProvider{values: []float32{2}}
	gen := newTestGenerator(short, 4)
	assert.Equal(t, 4, gen.Dimension())
	emb, err := gen.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0}, emb.Vector)

	long := &fakeProvider{values: []float32{0, 5, 1, 1, 1}}
	emb, err = newTestGenerator(long, 2).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, emb.Vector)

	assert.Equal(t, DefaultDimension, newTestGenerator(long, 0).Dimension())
}

func TestGeneratorFallsBackToDegradedVector(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"backend error", &fakeProvider{err: errors.New("connection refused")}},
		{"non-finite values", &fakeProvider{values: []float32{1, float32(math.NaN()), 0}}},
		{"infinite values", &fakeProvider{values: []float32{float32(math.Inf(1)), 0, 0}}},
		{"zero magnitude", &fakeProvider{values: []float32{0, 0, 0}}},
		{"empty response", &fakeProvider{values: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(tt.provider, 3)
			ctx := context.Background()

			emb, err := g.Generate(ctx, "some text")
			require.NoError(t, err)
			assert.True(t, emb.Degraded)
			require.Len(t, emb.Vector, 3)
			assert.InDelta(t, 1.0, similarity.Magnitude(emb.Vector), 1e-6)

			_, err = g.Generate(ctx, "some text")
			require.NoError(t, err)
			assert.Equal(t, 2, tt.provider.calls, "degraded vectors are not cached")
		})
	}
}

func TestGeneratorFallbackUsesRandomSource(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: errors.New("down")}, cache.NewMemoryStore(), logger.NewNopLogger(),
		WithDimension(4), WithRandomSource(func() float64 { return 0.5 }))

	emb, err := g.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, emb.Degraded)
	assert.Equal(t, []float32{1, 0, 0, 0}, emb.Vector)
}

type fakeLLM struct {
	reply   string
	err     error
	history []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.history = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestLLMProvider(t *testing.T) {
	chat := &fakeLLM{reply: " 0.5, -0.25 ,1, 0.9, 0.1"}
	p := NewLLMProvider(chat, "", 3)

	resp, err := p.Generate(context.Background(), "Go channels")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, resp.Embedding.Values)
	require.Len(t, chat.history, 2)
	assert.Contains(t, chat.history[0].Content, "exactly 3 numerical values")
	assert.Equal(t, "Generate semantic embedding for: Go channels", chat.history[1].Content)

	chat.reply = "0.1, not-a-number"
	resp, err = p.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(resp.Embedding.Values[1])))

	chat.err = errors.New("rate limit")
	_, err = p.Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestOllamaProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		_, _ = w.Write([]byte(`{"embedding":[0.25,-0.5,1.5]}`))
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL, "").Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1.5}, resp.Embedding.Values)
}

func TestOllamaProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
