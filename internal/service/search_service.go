package service

import (
	"context"
	"fmt"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/repository/contract"
	"ai-blog-summarizer-be/internal/repository/specification"
	"ai-blog-summarizer-be/pkg/similarity"
	"ai-blog-summarizer-be/pkg/summarizer"
	"ai-blog-summarizer-be/pkg/vectorindex"
)

const (
	SearchTypeTitle   = "title"
	SearchTypeContent = "content"
	SearchTypeHybrid  = "hybrid"

	DefaultSearchLimit       = 10
	DefaultSemanticThreshold = 0.3
)

type ISearchService interface {
	SearchDocuments(ctx context.Context, req *dto.SearchDocumentsRequest) ([]*dto.DocumentSearchHit, error)
	SemanticSearch(ctx context.Context, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error)
	TitleSearch(ctx context.Context, req *dto.TitleSearchRequest) ([]*dto.TitleSearchResult, error)
}

type searchService struct {
	documents contract.DocumentRepository
	embedder  summarizer.Embedder
	index     vectorindex.Client
	log       logger.ILogger
}

func NewSearchService(
	documents contract.DocumentRepository,
	embedder summarizer.Embedder,
	index vectorindex.Client,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		documents: documents,
		embedder:  embedder,
		index:     index,
		log:       log,
	}
}

// SearchDocuments queries the vector index. Title and content searches only
// consider points of that role; hybrid considers both.
func (s *searchService) SearchDocuments(ctx context.Context, req *dto.SearchDocumentsRequest) ([]*dto.DocumentSearchHit, error) {
	if s.index == nil {
		return nil, ErrVectorIndexMissing
	}

	query, err := s.queryVector(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	var filter vectorindex.Filter
	switch req.SearchType {
	case SearchTypeTitle:
		filter.Role = vectorindex.RoleTitle
	case SearchTypeContent:
		filter.Role = vectorindex.RoleContent
	case "", SearchTypeHybrid:
	default:
		return nil, fmt.Errorf("unknown search type %q", req.SearchType)
	}

	hits, err := s.index.Search(ctx, query, limitOrDefault(req.Limit), filter)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.DocumentSearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, &dto.DocumentSearchHit{
			DocumentId: h.Payload.DocumentID,
			Title:      h.Payload.Title,
			Snippet:    h.Payload.Snippet,
			Role:       string(h.Payload.Role),
			Score:      h.Score,
		})
	}
	return out, nil
}

type fieldMatch struct {
	doc   *entity.Document
	field string
}

// SemanticSearch scores each document by the best of its title, content and
// summary vectors against the query.
func (s *searchService) SemanticSearch(ctx context.Context, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error) {
	query, err := s.queryVector(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = DefaultSemanticThreshold
	}
	limit := limitOrDefault(req.Limit)

	docs, err := s.documents.FindAll(ctx,
		specification.WithEmbeddings{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	candidates := make([]similarity.Candidate[fieldMatch], 0, len(docs)*3)
	for _, doc := range docs {
		for _, f := range []struct {
			name string
			vec  []float32
		}{
			{"title", doc.TitleEmbedding},
			{"content", doc.ContentEmbedding},
			{"summary", doc.SummaryEmbedding},
		} {
			if len(f.vec) == 0 {
				continue
			}
			candidates = append(candidates, similarity.Candidate[fieldMatch]{
				Item:   fieldMatch{doc: doc, field: f.name},
				Vector: f.vec,
			})
		}
	}

	// Ranked descending, so the first hit per document is its best field.
	ranked := similarity.Rank(query, candidates, threshold, 0)
	seen := make(map[string]struct{}, len(ranked))
	out := make([]*dto.SemanticSearchResult, 0, limit)
	for _, r := range ranked {
		id := r.Item.doc.Id.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		doc := r.Item.doc
		out = append(out, &dto.SemanticSearchResult{
			Id:         doc.Id,
			Title:      doc.Title,
			Summary:    doc.Summary,
			Author:     doc.Author,
			Tags:       doc.Tags,
			Similarity: r.Score,
			MatchField: r.Item.field,
		})
		if len(out) == limit {
			break
		}
	}

	s.log.Debug("SEARCH", "Semantic search", map[string]interface{}{
		"candidates": len(candidates),
		"results":    len(out),
	})
	return out, nil
}

func (s *searchService) TitleSearch(ctx context.Context, req *dto.TitleSearchRequest) ([]*dto.TitleSearchResult, error) {
	scorer, err := similarity.NewTitleScorer(req.Strategy)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	ranked := similarity.RankTitles(scorer, req.Query, docs, func(d *entity.Document) string { return d.Title }, limitOrDefault(req.Limit))

	out := make([]*dto.TitleSearchResult, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, &dto.TitleSearchResult{
			Id:    r.Item.Id,
			Title: r.Item.Title,
			Score: r.Score,
		})
	}
	return out, nil
}

// queryVector refuses degraded embeddings.
func (s *searchService) queryVector(ctx context.Context, query string) ([]float32, error) {
	emb, err := s.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	if emb.Degraded {
		return nil, ErrEmbeddingDegraded
	}
	return emb.Vector, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return limit
}
