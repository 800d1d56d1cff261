package vectorindex

import (
	"context"
	"slices"
	"sync"

	"ai-blog-summarizer-be/pkg/similarity"
)

// MemoryIndex is an exhaustive in-process index for tests and single-node setups.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	points    map[uint64]Point
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{points: make(map[uint64]Point)}
}

func (m *MemoryIndex) EnsureCollection(_ context.Context, dimension int, _ string) error {
	if dimension <= 0 {
		return ErrInvalidDimension
	}
	m.mu.Lock()
	m.dimension = dimension
	m.mu.Unlock()
	return nil
}

func (m *MemoryIndex) Upsert(_ context.Context, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		if m.dimension > 0 && len(p.Vector) != m.dimension {
			return ErrInvalidDimension
		}
		p.Vector = slices.Clone(p.Vector)
		m.points[p.ID] = p
	}
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, limit int, filter Filter) ([]Hit, error) {
	m.mu.RLock()
	ids := make([]uint64, 0, len(m.points))
	for id := range m.points {
		ids = append(ids, id)
	}
	// map order is random; sort ids so equal scores rank deterministically
	slices.Sort(ids)

	candidates := make([]similarity.Candidate[Point], 0, len(ids))
	for _, id := range ids {
		p := m.points[id]
		if filter.Role != "" && p.Payload.Role != filter.Role {
			continue
		}
		candidates = append(candidates, similarity.Candidate[Point]{Item: p, Vector: p.Vector})
	}
	m.mu.RUnlock()

	ranked := similarity.Rank(vector, candidates, -1, limit)
	hits := make([]Hit, len(ranked))
	for i, r := range ranked {
		hits[i] = Hit{ID: r.Item.ID, Score: r.Score, Payload: r.Item.Payload}
	}
	return hits, nil
}

func (m *MemoryIndex) Delete(_ context.Context, ids []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.points, id)
	}
	return nil
}

func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}
