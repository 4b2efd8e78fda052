package sources

import "context"

// Source locates chapter pages and the images and sub-chapters they reference
type Source interface {
	ChapterURL(chapterID string) string
	// GetPages fetches the chapter page and returns absolute image URLs in document order
	GetPages(ctx context.Context, chapterID string) ([]string, error)
	// GetSubChapters fetches the chapter page and returns linked sub-chapter identifiers
	GetSubChapters(ctx context.Context, chapterID string) ([]string, error)
}
