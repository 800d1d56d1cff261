package similarity

import (
	"cmp"
	"slices"
)

type Candidate[T any] struct {
	Item   T
	Vector []float32
}

type Scored[T any] struct {
	Item  T
	Score float64
}

// Rank scores candidates against query, keeps those with score >= threshold,
// and returns them best first. Ties keep candidate order. limit <= 0 means no limit.
func Rank[T any](query []float32, candidates []Candidate[T], threshold float64, limit int) []Scored[T] {
	scored := make([]Scored[T], 0, len(candidates))
	for _, c := range candidates {
		s := Cosine(query, c.Vector)
		if s >= threshold {
			scored = append(scored, Scored[T]{Item: c.Item, Score: s})
		}
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return truncate(scored, limit)
}

func truncate[T any](s []Scored[T], limit int) []Scored[T] {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
