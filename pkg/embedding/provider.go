package embedding

import (
	"context"
	"errors"
)

// DefaultDimension is the vector size shared by the cache, the semantic cache and the vector index.
const DefaultDimension = 384

var (
	ErrInvalidInput    = errors.New("embedding input must be non-empty text")
	ErrNonFiniteVector = errors.New("embedding contains non-finite values")
	ErrZeroMagnitude   = errors.New("embedding has zero magnitude")
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider returns a raw vector for text. Normalization and
// dimension checks happen in Generator.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) (*EmbeddingResponse, error)
}
