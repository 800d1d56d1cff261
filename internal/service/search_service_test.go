package service

import (
	"context"
	"testing"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/vectorindex"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchFixture(t *testing.T) (ISearchService, *fakeEmbedder, []*entity.Document) {
	t.Helper()
	ctx := context.Background()
	repo := &fakeDocumentRepository{}
	embedder := newFakeEmbedder()
	index := vectorindex.NewMemoryIndex()

	docs := []*entity.Document{
		{
			Id: uuid.New(), Title: "Node.js Development", Content: "server side js",
			TitleEmbedding: []float32{1, 0, 0}, ContentEmbedding: []float32{0, 1, 0},
		},
		{
			Id: uuid.New(), Title: "Python Tips", Content: "snakes", Summary: "py",
			TitleEmbedding: []float32{0, 1, 0}, ContentEmbedding: []float32{0, 1, 0}, SummaryEmbedding: []float32{0.6, 0.8, 0},
		},
		{
			Id: uuid.New(), Title: "Unrelated", Content: "nothing",
			TitleEmbedding: []float32{0, 0, 1}, ContentEmbedding: []float32{0, 0, 1},
		},
	}
	for _, d := range docs {
		require.NoError(t, repo.Create(ctx, d))
		require.NoError(t, index.Upsert(ctx, vectorindex.DocumentPoints(d.Id.String(), d.Title, d.Content, d.TitleEmbedding, d.ContentEmbedding)))
	}

	embedder.vectors["node"] = []float32{1, 0, 0}
	return NewSearchService(repo, embedder, index, logger.NewNopLogger()), embedder, docs
}

func TestSearchDocumentsFiltersByRole(t *testing.T) {
	svc, _, docs := seedSearchFixture(t)
	ctx := context.Background()

	tests := []struct {
		searchType string
		wantRoles  []string
	}{
		{"title", []string{"title"}},
		{"content", []string{"content"}},
		{"hybrid", []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.searchType, func(t *testing.T) {
			hits, err := svc.SearchDocuments(ctx, &dto.SearchDocumentsRequest{Query: "node", SearchType: tt.searchType, Limit: 10})
			require.NoError(t, err)
			require.NotEmpty(t, hits)

			roles := map[string]bool{}
			for _, h := range hits {
				roles[h.Role] = true
			}
			assert.Len(t, roles, len(tt.wantRoles))
			for _, r := range tt.wantRoles {
				assert.True(t, roles[r])
			}
		})
	}

	hits, err := svc.SearchDocuments(ctx, &dto.SearchDocumentsRequest{Query: "node", SearchType: "title", Limit: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, docs[0].Id.String(), hits[0].DocumentId)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestSemanticSearchUsesBestField(t *testing.T) {
	svc, _, docs := seedSearchFixture(t)

	results, err := svc.SemanticSearch(context.Background(), &dto.SemanticSearchRequest{Query: "node"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, docs[0].Id, results[0].Id)
	assert.Equal(t, "title", results[0].MatchField)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)

	assert.Equal(t, docs[1].Id, results[1].Id)
	assert.Equal(t, "summary", results[1].MatchField)
	assert.InDelta(t, 0.6, results[1].Similarity, 1e-6)
}

func TestSemanticSearchThresholdAndLimit(t *testing.T) {
	svc, _, _ := seedSearchFixture(t)

	strict, err := svc.SemanticSearch(context.Background(), &dto.SemanticSearchRequest{Query: "node", Threshold: 0.9})
	require.NoError(t, err)
	assert.Len(t, strict, 1)

	limited, err := svc.SemanticSearch(context.Background(), &dto.SemanticSearchRequest{Query: "node", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearchRejectsDegradedQuery(t *testing.T) {
	svc, embedder, _ := seedSearchFixture(t)
	embedder.degraded["offline"] = true

	_, err := svc.SemanticSearch(context.Background(), &dto.SemanticSearchRequest{Query: "offline"})
	assert.ErrorIs(t, err, ErrEmbeddingDegraded)

	_, err = svc.SearchDocuments(context.Background(), &dto.SearchDocumentsRequest{Query: "offline"})
	assert.ErrorIs(t, err, ErrEmbeddingDegraded)
}

func TestTitleSearchStrategies(t *testing.T) {
	svc, _, _ := seedSearchFixture(t)
	ctx := context.Background()

	fuzzy, err := svc.TitleSearch(ctx, &dto.TitleSearchRequest{Query: "Node"})
	require.NoError(t, err)
	require.Len(t, fuzzy, 3)
	assert.Equal(t, "Node.js Development", fuzzy[0].Title)
	assert.Equal(t, 1.0, fuzzy[0].Score)

	strict, err := svc.TitleSearch(ctx, &dto.TitleSearchRequest{Query: "Node", Strategy: "strict"})
	require.NoError(t, err)
	require.Len(t, strict, 1)
	assert.Equal(t, "Node.js Development", strict[0].Title)

	_, err = svc.TitleSearch(ctx, &dto.TitleSearchRequest{Query: "Node", Strategy: "bogus"})
	assert.Error(t, err)
}
