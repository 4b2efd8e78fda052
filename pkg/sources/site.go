package sources

import (
	"bytes"
	"context"

	"github.com/kerbaras/mangagrab/pkg/utils"
)

// Site is a chapter-per-directory comic site: chapter N lives at {baseURL}N/
type Site struct {
	fetcher utils.Fetcher
	baseURL string
}

func NewSite(baseURL string, fetcher utils.Fetcher) *Site {
	return &Site{fetcher: fetcher, baseURL: baseURL}
}

func (s *Site) BaseURL() string {
	return s.baseURL
}

func (s *Site) ChapterURL(chapterID string) string {
	return s.baseURL + chapterID + "/"
}

// GetPages resolves image references against the base URL, not the chapter URL.
func (s *Site) GetPages(ctx context.Context, chapterID string) ([]string, error) {
	page, err := s.fetcher.Fetch(ctx, s.ChapterURL(chapterID))
	if err != nil {
		return nil, err
	}

	refs := ExtractImageRefs(bytes.NewReader(page))
	pages := make([]string, len(refs))
	for i, ref := range refs {
		pages[i] = utils.ResolveURL(s.baseURL, ref)
	}
	return pages, nil
}

func (s *Site) GetSubChapters(ctx context.Context, chapterID string) ([]string, error) {
	page, err := s.fetcher.Fetch(ctx, s.ChapterURL(chapterID))
	if err != nil {
		return nil, err
	}
	return ExtractSubChapters(bytes.NewReader(page), chapterID), nil
}
