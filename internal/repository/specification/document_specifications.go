package specification

import "gorm.io/gorm"

type ByAuthor struct {
	Author string
}

func (s ByAuthor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author = ?", s.Author)
}

type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}

// MissingEmbeddings matches documents with a NULL title or content vector,
// or a summary without its vector.
type MissingEmbeddings struct{}

func (s MissingEmbeddings) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title_embedding IS NULL OR content_embedding IS NULL OR (summary <> '' AND summary_embedding IS NULL)")
}

// WithEmbeddings matches documents that carry at least one vector.
type WithEmbeddings struct{}

func (s WithEmbeddings) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title_embedding IS NOT NULL OR content_embedding IS NOT NULL OR summary_embedding IS NOT NULL")
}
