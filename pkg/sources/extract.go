package sources

import (
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kerbaras/mangagrab/pkg/utils"
)

// ExtractImageRefs returns the src of every <img> ending in .png or .jpg,
// in document order. Duplicates are kept.
func ExtractImageRefs(r io.Reader) []string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil
	}

	var refs []string
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		if strings.HasSuffix(src, ".png") || strings.HasSuffix(src, ".jpg") {
			refs = append(refs, src)
		}
	})
	return refs
}

// ExtractSubChapters collects the second-to-last path segment of every link
// whose href contains chapterID. Any href containing the digits matches, so
// chapter "1" also picks up links to "10" or "21".
func ExtractSubChapters(r io.Reader, chapterID string) []string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil
	}

	found := make(map[string]struct{})
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, chapterID) {
			return
		}
		parts := strings.Split(href, "/")
		if len(parts) < 2 {
			return
		}
		candidate := parts[len(parts)-2]
		if candidate == "" || candidate == chapterID {
			return
		}
		found[candidate] = struct{}{}
	})

	subChapters := make([]string, 0, len(found))
	for id := range found {
		subChapters = append(subChapters, id)
	}
	sort.Slice(subChapters, func(i, j int) bool {
		return utils.NaturalLess(subChapters[i], subChapters[j])
	})
	return subChapters
}
