package service

import (
	"context"
	"fmt"
	"time"

	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/repository/contract"
	"ai-blog-summarizer-be/internal/repository/specification"
	"ai-blog-summarizer-be/pkg/summarizer"
	"ai-blog-summarizer-be/pkg/vectorindex"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IndexDocument(ctx context.Context, id uuid.UUID) error
	DeleteDocumentIndex(ctx context.Context, id uuid.UUID) error
	BackfillEmbeddings(ctx context.Context) (*dto.BackfillResponse, error)
}

type documentService struct {
	documents contract.DocumentRepository
	embedder  summarizer.Embedder
	index     vectorindex.Client
	log       logger.ILogger
}

// NewDocumentService wires document persistence. index may be nil, which
// leaves documents searchable only through their stored vectors.
func NewDocumentService(
	documents contract.DocumentRepository,
	embedder summarizer.Embedder,
	index vectorindex.Client,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documents: documents,
		embedder:  embedder,
		index:     index,
		log:       log,
	}
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	existing, err := s.documents.FindOne(ctx,
		specification.ByAuthor{Author: req.Author},
		specification.ByTitle{Title: req.Title},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateDocument
	}

	doc := &entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		Author:    req.Author,
		Tags:      req.Tags,
		CreatedAt: time.Now(),
	}
	s.refreshEmbeddings(ctx, doc, true, true, true)

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.reindex(ctx, doc)
	return toDocumentResponse(doc), nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := s.find(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	titleChanged := doc.Title != req.Title
	contentChanged := doc.Content != req.Content
	summaryChanged := doc.Summary != req.Summary

	if titleChanged {
		clash, err := s.documents.FindOne(ctx,
			specification.ByAuthor{Author: doc.Author},
			specification.ByTitle{Title: req.Title},
		)
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.Id != doc.Id {
			return nil, ErrDuplicateDocument
		}
	}

	doc.Title = req.Title
	doc.Content = req.Content
	doc.Summary = req.Summary
	if req.Tags != nil {
		doc.Tags = req.Tags
	}
	now := time.Now()
	doc.UpdatedAt = &now

	s.refreshEmbeddings(ctx, doc, titleChanged, contentChanged, summaryChanged)

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	if titleChanged || contentChanged {
		s.reindex(ctx, doc)
	}
	return toDocumentResponse(doc), nil
}

// Delete removes the document and both of its index points.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.DeleteDocumentIndex(ctx, id); err != nil {
			return err
		}
	}
	return s.documents.Delete(ctx, id)
}

func (s *documentService) IndexDocument(ctx context.Context, id uuid.UUID) error {
	if s.index == nil {
		return ErrVectorIndexMissing
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if len(doc.TitleEmbedding) == 0 || len(doc.ContentEmbedding) == 0 {
		s.refreshEmbeddings(ctx, doc, len(doc.TitleEmbedding) == 0, len(doc.ContentEmbedding) == 0, false)
		if len(doc.TitleEmbedding) == 0 || len(doc.ContentEmbedding) == 0 {
			return ErrEmbeddingDegraded
		}
		if err := s.documents.Update(ctx, doc); err != nil {
			return err
		}
	}

	points := vectorindex.DocumentPoints(doc.Id.String(), doc.Title, doc.Content, doc.TitleEmbedding, doc.ContentEmbedding)
	if err := s.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("index document %s: %w", doc.Id, err)
	}

	s.log.Info("VECTOR_INDEX", "Document indexed", map[string]interface{}{"document_id": doc.Id.String()})
	return nil
}

func (s *documentService) DeleteDocumentIndex(ctx context.Context, id uuid.UUID) error {
	if s.index == nil {
		return ErrVectorIndexMissing
	}
	titleID, contentID := vectorindex.PointIDs(id.String())
	if err := s.index.Delete(ctx, []uint64{titleID, contentID}); err != nil {
		return fmt.Errorf("delete index of document %s: %w", id, err)
	}
	return nil
}

// BackfillEmbeddings fills in every missing vector. Documents whose
// embeddings could not be produced are left for a later run.
func (s *documentService) BackfillEmbeddings(ctx context.Context) (*dto.BackfillResponse, error) {
	docs, err := s.documents.FindAll(ctx, specification.MissingEmbeddings{})
	if err != nil {
		return nil, err
	}

	res := &dto.BackfillResponse{Total: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		s.refreshEmbeddings(ctx, doc,
			len(doc.TitleEmbedding) == 0,
			len(doc.ContentEmbedding) == 0,
			doc.Summary != "" && len(doc.SummaryEmbedding) == 0,
		)
		if doc.MissingEmbeddings() {
			continue
		}

		if err := s.documents.Update(ctx, doc); err != nil {
			s.log.Warn("EMBEDDING", "Backfill update failed", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
			continue
		}
		s.reindex(ctx, doc)
		res.Updated++
	}

	s.log.Info("EMBEDDING", "Backfill finished", map[string]interface{}{
		"updated": res.Updated,
		"total":   res.Total,
	})
	return res, nil
}

func (s *documentService) find(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.documents.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// refreshEmbeddings regenerates the selected vectors. Degraded vectors are
// not stored so a later backfill can replace them.
func (s *documentService) refreshEmbeddings(ctx context.Context, doc *entity.Document, title, content, summary bool) {
	if title {
		doc.TitleEmbedding = s.embedField(ctx, doc, "title", doc.Title)
	}
	if content {
		doc.ContentEmbedding = s.embedField(ctx, doc, "content", doc.Content)
	}
	if summary {
		doc.SummaryEmbedding = s.embedField(ctx, doc, "summary", doc.Summary)
	}
}

func (s *documentService) embedField(ctx context.Context, doc *entity.Document, field, text string) []float32 {
	if text == "" {
		return nil
	}
	emb, err := s.embedder.Generate(ctx, text)
	if err != nil || emb.Degraded {
		details := map[string]interface{}{"document_id": doc.Id.String(), "field": field}
		if err != nil {
			details["error"] = err.Error()
		}
		s.log.Warn("EMBEDDING", "Embedding unavailable, field left empty", details)
		return nil
	}
	return emb.Vector
}

// reindex keeps the vector index in step with the stored document.
// Failures are logged; the document itself is already saved.
func (s *documentService) reindex(ctx context.Context, doc *entity.Document) {
	if s.index == nil {
		return
	}
	// Without both vectors the old points would keep a stale title and snippet.
	if len(doc.TitleEmbedding) == 0 || len(doc.ContentEmbedding) == 0 {
		if err := s.DeleteDocumentIndex(ctx, doc.Id); err != nil {
			s.log.Warn("VECTOR_INDEX", "Failed to drop stale index points", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		}
		return
	}
	points := vectorindex.DocumentPoints(doc.Id.String(), doc.Title, doc.Content, doc.TitleEmbedding, doc.ContentEmbedding)
	if err := s.index.Upsert(ctx, points); err != nil {
		s.log.Warn("VECTOR_INDEX", "Failed to index document", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.DocumentResponse{
		Id:            doc.Id,
		Title:         doc.Title,
		Content:       doc.Content,
		Summary:       doc.Summary,
		Author:        doc.Author,
		Tags:          tags,
		HasEmbeddings: !doc.MissingEmbeddings(),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
