package integrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/kerbaras/mangagrab/pkg/utils"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	CoverWidth  = 200
	CoverHeight = 300
)

var ErrCoverNotFound = errors.New("cover image not found")

// FetchCover looks up the series cover on the base page (div.summary_image img)
// and returns it as a CoverWidth x CoverHeight JPEG.
func FetchCover(ctx context.Context, fetcher utils.Fetcher, baseURL string) ([]byte, error) {
	page, err := fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse series page: %w", err)
	}
	src, ok := doc.Find("div.summary_image img").First().Attr("src")
	if !ok || src == "" {
		return nil, ErrCoverNotFound
	}

	content, err := fetcher.Fetch(ctx, utils.ResolveURL(baseURL, src))
	if err != nil {
		return nil, err
	}
	return Thumbnail(bytes.NewReader(content), CoverWidth, CoverHeight)
}

// Thumbnail scales an image to exactly width x height and encodes it as JPEG
func Thumbnail(input io.Reader, width, height int) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
