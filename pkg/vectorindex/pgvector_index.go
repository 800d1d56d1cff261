package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-blog-summarizer-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PgVectorIndex stores points in Postgres and ranks them with the pgvector
// cosine distance operator.
type PgVectorIndex struct {
	db         *gorm.DB
	collection string
}

func NewPgVectorIndex(db *gorm.DB, collection string) *PgVectorIndex {
	if collection == "" {
		collection = DefaultCollection
	}
	return &PgVectorIndex{db: db, collection: collection}
}

// EnsureCollection makes sure the extension and table exist. The column
// dimension is fixed by the model, so other dimensions are rejected.
func (p *PgVectorIndex) EnsureCollection(ctx context.Context, dimension int, distance string) error {
	if dimension != 384 {
		return fmt.Errorf("%w: pgvector index is fixed at 384, got %d", ErrInvalidDimension, dimension)
	}
	if distance != "" && distance != DistanceCosine {
		return fmt.Errorf("pgvector index only supports %s distance", DistanceCosine)
	}
	db := p.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return db.AutoMigrate(&model.VectorPoint{})
}

func (p *PgVectorIndex) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	records := make([]*model.VectorPoint, len(points))
	for i, pt := range points {
		payload, err := json.Marshal(pt.Payload)
		if err != nil {
			return err
		}
		records[i] = &model.VectorPoint{
			Collection: p.collection,
			Id:         int64(pt.ID),
			DocumentId: pt.Payload.DocumentID,
			Role:       string(pt.Payload.Role),
			Embedding:  pgvector.NewVector(pt.Vector),
			Payload:    datatypes.JSON(payload),
		}
	}

	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document_id", "role", "embedding", "payload", "updated_at"}),
		}).
		Create(&records).Error
}

func (p *PgVectorIndex) Search(ctx context.Context, vector []float32, limit int, filter Filter) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.VectorPoint
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	query := p.db.WithContext(ctx).
		Table("vector_points").
		Select("vector_points.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("collection = ?", p.collection)
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}

	err := query.
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		var payload Payload
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode payload of point %d: %w", r.Id, err)
		}
		hits[i] = Hit{ID: uint64(r.Id), Score: r.Similarity, Payload: payload}
	}
	return hits, nil
}

func (p *PgVectorIndex) Delete(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	signed := make([]int64, len(ids))
	for i, id := range ids {
		signed[i] = int64(id)
	}
	return p.db.WithContext(ctx).
		Where("collection = ? AND id IN ?", p.collection, signed).
		Delete(&model.VectorPoint{}).Error
}
