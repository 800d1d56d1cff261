package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// VectorPoint backs the pgvector index. Ids are stored signed; derived ids fit in 63 bits.
type VectorPoint struct {
	Collection string          `gorm:"type:varchar(100);primaryKey"`
	Id         int64           `gorm:"primaryKey;autoIncrement:false"`
	DocumentId string          `gorm:"type:varchar(64);index"`
	Role       string          `gorm:"type:varchar(16);index"`
	Embedding  pgvector.Vector `gorm:"type:vector(384)"` // all-minilm uses 384 dimensions
	Payload    datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (VectorPoint) TableName() string {
	return "vector_points"
}
