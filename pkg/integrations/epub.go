package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/mangagrab/pkg/utils"
)

// EPubBuilder bundles a save directory of chapter_{tag}_{basename} files into one EPub
type EPubBuilder struct {
	outputDir string
	author    string
	cover     []byte
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir, author: "mangagrab"}
}

func (p *EPubBuilder) SetAuthor(author string) {
	if author != "" {
		p.author = author
	}
}

// SetCover sets JPEG data used as the book cover
func (p *EPubBuilder) SetCover(content []byte) {
	p.cover = content
}

// GroupChapterImages maps chapter tags to their image files (sorted) and returns
// the tags in natural order. The tag is the text between "chapter_" and the next "_".
func GroupChapterImages(imageDir string) (map[string][]string, []string, error) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	groups := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		rest, ok := strings.CutPrefix(entry.Name(), "chapter_")
		if !ok {
			continue
		}
		tag, _, ok := strings.Cut(rest, "_")
		if !ok || tag == "" {
			continue
		}
		groups[tag] = append(groups[tag], entry.Name())
	}

	tags := make([]string, 0, len(groups))
	for tag, files := range groups {
		sort.Slice(files, func(i, j int) bool { return utils.NaturalLess(files[i], files[j]) })
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return utils.NaturalLess(tags[i], tags[j]) })

	return groups, tags, nil
}

// CreateEPub writes {outputDir}/{title}.epub with one section per chapter tag
func (p *EPubBuilder) CreateEPub(title, imageDir string) (string, error) {
	groups, tags, err := GroupChapterImages(imageDir)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no chapter images found in %s", imageDir)
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(p.author)
	e.SetLang("en")

	if len(p.cover) > 0 {
		tmpDir, err := os.MkdirTemp("", "mangagrab-cover-*")
		if err != nil {
			return "", fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		coverPath := filepath.Join(tmpDir, "cover.jpg")
		if err := os.WriteFile(coverPath, p.cover, 0644); err != nil {
			return "", fmt.Errorf("failed to write cover: %w", err)
		}
		internalPath, err := e.AddImage(coverPath, "cover.jpg")
		if err != nil {
			return "", fmt.Errorf("failed to add cover: %w", err)
		}
		e.SetCover(internalPath, "")
	}

	for _, tag := range tags {
		if err := p.addChapterToEPub(e, tag, imageDir, groups[tag]); err != nil {
			return "", fmt.Errorf("failed to add chapter %s: %w", tag, err)
		}
	}

	outputPath := filepath.Join(p.outputDir, sanitizeFilename(title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func (p *EPubBuilder) addChapterToEPub(e *epub.Epub, tag, imageDir string, files []string) error {
	chapterTitle := fmt.Sprintf("Chapter %s", tag)

	var htmlContent strings.Builder
	htmlContent.WriteString(fmt.Sprintf("<h1>%s</h1>\n", chapterTitle))

	for i, name := range files {
		internalPath, err := e.AddImage(filepath.Join(imageDir, name), name)
		if err != nil {
			return fmt.Errorf("failed to add image %s: %w", name, err)
		}
		htmlContent.WriteString(fmt.Sprintf(
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
			internalPath, i+1, "\n",
		))
	}

	if _, err := e.AddSection(htmlContent.String(), chapterTitle, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

func isImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		result = "manga"
	}
	return result
}
