package vectorindex

import (
	"context"
	"errors"
)

const (
	DefaultCollection = "blog-platform"
	DistanceCosine    = "Cosine"
	SnippetLength     = 200
)

type Role string

const (
	RoleTitle   Role = "title"
	RoleContent Role = "content"
)

var ErrInvalidDimension = errors.New("invalid vector dimension")

type Payload struct {
	DocumentID string `json:"document_id"`
	Role       Role   `json:"role"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
}

type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// Filter restricts a search. A zero Filter matches every point.
type Filter struct {
	Role Role
}

type Hit struct {
	ID      uint64
	Score   float64
	Payload Payload
}

// Client is the contract shared by the Qdrant, pgvector and in-memory indexes.
type Client interface {
	EnsureCollection(ctx context.Context, dimension int, distance string) error
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, limit int, filter Filter) ([]Hit, error)
	Delete(ctx context.Context, ids []uint64) error
}
