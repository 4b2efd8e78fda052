package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kerbaras/mangagrab/pkg/data"
	"github.com/kerbaras/mangagrab/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapterBounds(t *testing.T) {
	tests := []struct {
		name       string
		chapters   string
		start, end string
		wantStart  string
		wantEnd    string
		wantErr    bool
	}{
		{name: "start and end", start: "1", end: "10", wantStart: "1", wantEnd: "10"},
		{name: "range", chapters: "5-7", wantStart: "5", wantEnd: "7"},
		{name: "range wins", chapters: "2-3", start: "9", wantStart: "2", wantEnd: "3"},
		{name: "no dash", chapters: "5", wantErr: true},
		{name: "raw values pass through", chapters: "a-b", wantStart: "a", wantEnd: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := chapterBounds(tt.chapters, tt.start, tt.end)
			if tt.wantErr {
				var inputErr *services.InputValidationError
				require.True(t, errors.As(err, &inputErr))
				assert.Equal(t, "chapters", inputErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer

	printProgress(&buf, services.DownloadProgress{ChapterID: "5", Status: "crawling"})
	printProgress(&buf, services.DownloadProgress{ChapterID: "5", Status: "downloading", CurrentPage: 1, TotalPages: 2})
	printProgress(&buf, services.DownloadProgress{ChapterID: "5", Status: "complete", CurrentPage: 2, TotalPages: 2})
	printProgress(&buf, services.DownloadProgress{ChapterID: "6", Status: "error", Error: errors.New("bad status: 404 Not Found")})

	out := buf.String()
	assert.Contains(t, out, "Chapter 5: crawling")
	assert.Contains(t, out, "Chapter 5: 2/2 images")
	assert.NotContains(t, out, "1/2")
	assert.Contains(t, out, "Chapter 6: bad status: 404 Not Found")
}

func TestRenderReport(t *testing.T) {
	report := &data.Report{Chapters: 2}
	report.Add(
		data.Outcome{Kind: data.OutcomeImage, Chapter: "1", URL: "http://example.com/a.png", Path: "manga_images/chapter_1_a.png"},
		data.Outcome{Kind: data.OutcomeImage, Chapter: "1", URL: "http://example.com/b.png", Err: errors.New("bad status: 404 Not Found")},
	)

	out := renderReport(report)

	assert.Contains(t, out, "Attempted")
	assert.Contains(t, out, "http://example.com/b.png")
	assert.Contains(t, out, "404 Not Found")
	assert.NotContains(t, out, "http://example.com/a.png")
}

func TestRenderReportNoFailures(t *testing.T) {
	out := renderReport(&data.Report{Chapters: 1})

	assert.Contains(t, out, "Saved")
	assert.NotContains(t, out, "Reason")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownloadThenPack(t *testing.T) {
	pageImage := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/comic/1/":
			w.Write([]byte(`<img src="p1.png"><a href="/comic/1-2/">next</a>`))
		case "/comic/1-2/":
			w.Write([]byte(`<img src="p2.png">`))
		case "/comic/p1.png", "/comic/p2.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pageImage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	saveDir := filepath.Join(t.TempDir(), "images")
	outDir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"download", server.URL + "/comic/", "--chapters", "1-1", "--save-dir", saveDir})
	require.NoError(t, rootCmd.Execute())

	assert.FileExists(t, filepath.Join(saveDir, "chapter_1_p1.png"))
	assert.FileExists(t, filepath.Join(saveDir, "chapter_1-2_p2.png"))
	assert.Contains(t, out.String(), "Download complete")

	rootCmd.SetArgs([]string{"pack", "--title", "Test Comic", "--output", outDir, "--save-dir", saveDir})
	require.NoError(t, rootCmd.Execute())

	info, err := os.Stat(filepath.Join(outDir, "Test Comic.epub"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
