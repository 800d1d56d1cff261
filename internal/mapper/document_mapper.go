package mapper

import (
	"encoding/json"
	"time"

	"ai-blog-summarizer-be/internal/entity"
	"ai-blog-summarizer-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(d.Tags) > 0 {
		_ = json.Unmarshal(d.Tags, &tags)
	}

	return &entity.Document{
		Id:               d.Id,
		Title:            d.Title,
		Content:          d.Content,
		Summary:          d.Summary,
		Author:           d.Author,
		Tags:             tags,
		TitleEmbedding:   vectorSlice(d.TitleEmbedding),
		ContentEmbedding: vectorSlice(d.ContentEmbedding),
		SummaryEmbedding: vectorSlice(d.SummaryEmbedding),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagJSON, _ := json.Marshal(tags)

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Document{
		Id:               e.Id,
		Title:            e.Title,
		Content:          e.Content,
		Summary:          e.Summary,
		Author:           e.Author,
		Tags:             datatypes.JSON(tagJSON),
		TitleEmbedding:   vectorPtr(e.TitleEmbedding),
		ContentEmbedding: vectorPtr(e.ContentEmbedding),
		SummaryEmbedding: vectorPtr(e.SummaryEmbedding),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func vectorSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

// vectorPtr keeps absent embeddings NULL instead of an empty vector.
func vectorPtr(v []float32) *pgvector.Vector {
	if len(v) == 0 {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}
