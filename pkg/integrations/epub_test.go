package integrations

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImages(t *testing.T, dir string, names ...string) {
	t.Helper()

	data := createTestPNG(t, 2, 2)
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
}

func TestGroupChapterImages(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir,
		"chapter_10_a.png",
		"chapter_5_page_2.png",
		"chapter_5_page_10.png",
		"chapter_5-2_c.jpg",
		"notes.png",
		"chapter_.png",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapter_5_readme.txt"), []byte("x"), 0644))

	groups, tags, err := GroupChapterImages(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"5", "5-2", "10"}, tags)
	assert.Equal(t, []string{"chapter_5_page_2.png", "chapter_5_page_10.png"}, groups["5"])
	assert.Equal(t, []string{"chapter_5-2_c.jpg"}, groups["5-2"])
}

func TestGroupChapterImagesMissingDir(t *testing.T) {
	_, _, err := GroupChapterImages(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCreateEPub(t *testing.T) {
	imageDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	writeImages(t, imageDir, "chapter_1_a.png", "chapter_1_b.png", "chapter_2_a.png")

	builder := NewEPubBuilder(outputDir)
	builder.SetAuthor("Tester")
	builder.SetCover(createTestJPEG(t))

	path, err := builder.CreateEPub("My: Comic", imageDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "My_ Comic.epub"), path)

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	images := 0
	for _, f := range r.File {
		if filepath.Ext(f.Name) == ".png" || filepath.Ext(f.Name) == ".jpg" {
			images++
		}
	}
	assert.Equal(t, 4, images)
}

func TestCreateEPubEmptyDir(t *testing.T) {
	builder := NewEPubBuilder(t.TempDir())

	_, err := builder.CreateEPub("Empty", t.TempDir())
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeFilename("a/b:c"))
	assert.Equal(t, "manga", sanitizeFilename(" .. "))
}

func createTestJPEG(t *testing.T) []byte {
	t.Helper()

	thumb, err := Thumbnail(bytes.NewReader(createTestPNG(t, 4, 6)), CoverWidth, CoverHeight)
	require.NoError(t, err)
	return thumb
}
