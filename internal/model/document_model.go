package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Document struct {
	Id               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_author_title"`
	Author           string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_author_title"`
	Content          string           `gorm:"type:text"`
	Summary          string           `gorm:"type:text"`
	Tags             datatypes.JSON   `gorm:"type:jsonb"`
	TitleEmbedding   *pgvector.Vector `gorm:"type:vector(384)"`
	ContentEmbedding *pgvector.Vector `gorm:"type:vector(384)"`
	SummaryEmbedding *pgvector.Vector `gorm:"type:vector(384)"`
	CreatedAt        time.Time        `gorm:"autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
