package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID
	Title            string
	Content          string
	Summary          string
	Author           string
	Tags             []string
	TitleEmbedding   []float32
	ContentEmbedding []float32
	SummaryEmbedding []float32
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// MissingEmbeddings reports whether any text field lacks its vector.
func (d *Document) MissingEmbeddings() bool {
	return len(d.TitleEmbedding) == 0 ||
		len(d.ContentEmbedding) == 0 ||
		(d.Summary != "" && len(d.SummaryEmbedding) == 0)
}
