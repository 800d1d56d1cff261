package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Summary string   `json:"summary"`
	Author  string   `json:"author" validate:"required"`
	Tags    []string `json:"tags"`
}

type UpdateDocumentRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

type DocumentResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Summary       string     `json:"summary"`
	Author        string     `json:"author"`
	Tags          []string   `json:"tags"`
	HasEmbeddings bool       `json:"has_embeddings"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

type SearchDocumentsRequest struct {
	Query      string `json:"query" validate:"required"`
	SearchType string `json:"search_type" validate:"omitempty,oneof=title content hybrid"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type DocumentSearchHit struct {
	DocumentId string  `json:"document_id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Role       string  `json:"role"`
	Score      float64 `json:"score"`
}

type SemanticSearchRequest struct {
	Query     string  `json:"query" validate:"required"`
	Threshold float64 `json:"threshold" validate:"omitempty,min=0,max=1"`
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=100"`
}

type SemanticSearchResult struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	Similarity float64   `json:"similarity"`
	MatchField string    `json:"match_field"`
}

type TitleSearchRequest struct {
	Query    string `json:"query" validate:"required"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=fuzzy strict"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type TitleSearchResult struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Score float64   `json:"score"`
}

type BackfillResponse struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}
