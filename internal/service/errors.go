package service

import "errors"

var (
	ErrEmptyText          = errors.New("text is required")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrDuplicateDocument  = errors.New("document with this title already exists for author")
	ErrEmbeddingDegraded  = errors.New("embedding backend unavailable")
	ErrVectorIndexMissing = errors.New("vector index not configured")
	ErrJobTimedOut        = errors.New("job timed out")
)
