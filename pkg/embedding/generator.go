package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/similarity"
	"ai-blog-summarizer-be/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// MaxInputChars bounds the text that is embedded. Longer input is truncated, never chunked.
const MaxInputChars = 512

// Embedding is a unit-length vector. Degraded marks a random fallback that
// carries no semantic signal.
type Embedding struct {
	Vector   []float32
	Degraded bool
}

type Generator struct {
	provider  EmbeddingProvider
	store     cache.Store
	dimension int
	ttl       time.Duration
	log       logger.ILogger
	random    func() float64
}

type GeneratorOption func(*Generator)

func WithDimension(d int) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.dimension = d
		}
	}
}

func WithCacheTTL(ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithRandomSource replaces the fallback generator; values must lie in [0, 1).
func WithRandomSource(f func() float64) GeneratorOption {
	return func(g *Generator) { g.random = f }
}

func NewGenerator(provider EmbeddingProvider, store cache.Store, log logger.ILogger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:  provider,
		store:     store,
		dimension: DefaultDimension,
		ttl:       cache.DefaultTTL,
		log:       log,
		random:    rand.Float64,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Dimension() int {
	return g.dimension
}

// Generate embeds the first MaxInputChars characters of text. Backend failures
// yield a degraded random vector instead of an error; only empty input fails.
func (g *Generator) Generate(ctx context.Context, text string) (Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return Embedding{}, ErrInvalidInput
	}

	ctx, span := otel.Tracer("embedding").Start(ctx, "Generator.Generate")
	defer span.End()

	input := truncateRunes(text, MaxInputChars)
	key := utils.HashKey(cache.PrefixEmbedding, input)

	if vec, ok := g.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("embedding.cache_hit", true))
		return Embedding{Vector: vec}, nil
	}

	vec, err := g.fromProvider(ctx, input)
	if err != nil {
		g.log.Warn("EMBEDDING", "Backend unavailable, using random fallback vector", map[string]interface{}{
			"error": err.Error(),
		})
		span.SetAttributes(attribute.Bool("embedding.degraded", true))
		return Embedding{Vector: g.randomVector(), Degraded: true}, nil
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := g.store.Set(ctx, key, string(data), g.ttl); err != nil {
			g.log.Warn("EMBEDDING", "Failed to cache embedding", map[string]interface{}{"error": err.Error()})
		}
	}

	return Embedding{Vector: vec}, nil
}

func (g *Generator) cached(ctx context.Context, key string) ([]float32, bool) {
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil || len(vec) != g.dimension {
		return nil, false
	}
	return vec, true
}

func (g *Generator) fromProvider(ctx context.Context, input string) ([]float32, error) {
	resp, err := g.provider.Generate(ctx, input)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	vec := matchDimension(resp.Embedding.Values, g.dimension)
	for _, v := range vec {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, ErrNonFiniteVector
		}
	}
	if similarity.Magnitude(vec) == 0 {
		return nil, ErrZeroMagnitude
	}

	return similarity.Normalize(vec), nil
}

func (g *Generator) randomVector() []float32 {
	vec := make([]float32, g.dimension)
	for i := range vec {
		vec[i] = float32(g.random()*2 - 1)
	}
	if similarity.Magnitude(vec) == 0 {
		vec[0] = 1
	}
	return similarity.Normalize(vec)
}

// matchDimension truncates or zero-pads v to target.
func matchDimension(v []float32, target int) []float32 {
	if len(v) == target {
		return v
	}
	if len(v) > target {
		return v[:target]
	}
	out := make([]float32, target)
	copy(out, v)
	return out
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
