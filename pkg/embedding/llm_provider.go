package embedding

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ai-blog-summarizer-be/pkg/llm"
)

const llmEmbeddingSystemPrompt = "You are a semantic analyzer. Generate a comma-separated list of exactly %d numerical values between -1 and 1 that represent the semantic meaning of the given text. Focus on key concepts, themes, and meaning."

// LLMProvider derives a vector by asking a chat model for numbers.
// It is a coarse semantic proxy for deployments without an embedding model.
type LLMProvider struct {
	llm       llm.LLMProvider
	model     string
	dimension int
}

func NewLLMProvider(provider llm.LLMProvider, model string, dimension int) *LLMProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &LLMProvider{llm: provider, model: model, dimension: dimension}
}

func (p *LLMProvider) Generate(ctx context.Context, text string) (*EmbeddingResponse, error) {
	history := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(llmEmbeddingSystemPrompt, p.dimension)},
		{Role: "user", Content: "Generate semantic embedding for: " + text},
	}

	opts := []llm.Option{llm.WithTemperature(0.1), llm.WithMaxTokens(p.dimension * 8)}
	if p.model != "" {
		opts = append(opts, llm.WithModel(p.model))
	}

	out, err := p.llm.Chat(ctx, history, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm embedding: %w", err)
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: parseNumberList(out, p.dimension)},
	}, nil
}

// parseNumberList reads up to limit comma-separated numbers. Unparseable
// entries become NaN so that validation rejects the vector.
func parseNumberList(s string, limit int) []float32 {
	parts := strings.Split(strings.TrimSpace(s), ",")
	values := make([]float32, 0, min(len(parts), limit))
	for _, part := range parts {
		if len(values) == limit {
			break
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			f = math.NaN()
		}
		values = append(values, float32(f))
	}
	return values
}
