package services

import (
	"context"
	"sync/atomic"

	"github.com/kerbaras/mangagrab/pkg/data"
	"github.com/kerbaras/mangagrab/pkg/integrations"
	"github.com/kerbaras/mangagrab/pkg/sources"
	"github.com/kerbaras/mangagrab/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DownloadProgress represents the progress of one chapter or sub-chapter
type DownloadProgress struct {
	ChapterID   string
	CurrentPage int
	TotalPages  int
	Status      string // "crawling", "downloading", "complete", "error"
	Error       error
}

// Downloader crawls one chapter at a time: its images, then the images of
// every sub-chapter linked from it.
type Downloader struct {
	source       sources.Source
	fetcher      utils.Fetcher
	processor    integrations.Processor
	workers      int
	log          logrus.FieldLogger
	progressChan chan DownloadProgress
}

type DownloaderOptions struct {
	// Workers bounds concurrent image downloads and sub-chapter crawls. 1 is sequential.
	Workers  int
	Logger   logrus.FieldLogger
	Progress chan DownloadProgress
}

func NewDownloader(source sources.Source, fetcher utils.Fetcher, processor integrations.Processor, opts DownloaderOptions) *Downloader {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Downloader{
		source:       source,
		fetcher:      fetcher,
		processor:    processor,
		workers:      opts.Workers,
		log:          opts.Logger,
		progressChan: opts.Progress,
	}
}

// DownloadChapter downloads the chapter's images, then discovers its
// sub-chapters with a second fetch of the chapter page and downloads theirs.
// Discovery stops at one level. A failed chapter page fetch yields a single
// failure outcome and nothing else.
func (d *Downloader) DownloadChapter(ctx context.Context, chapterID string) []data.Outcome {
	log := d.log.WithField("chapter", chapterID)
	log.WithField("url", d.source.ChapterURL(chapterID)).Info("Crawling main chapter")

	outcomes, ok := d.downloadPages(ctx, chapterID)
	if !ok {
		return outcomes
	}

	subChapters, err := d.source.GetSubChapters(ctx, chapterID)
	if err != nil {
		log.WithError(err).Warn("Failed to discover sub-chapters")
		return append(outcomes, d.chapterFailure(chapterID, err))
	}

	results := make([][]data.Outcome, len(subChapters))
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for i, subChapter := range subChapters {
		i, subChapter := i, subChapter
		g.Go(func() error {
			d.log.WithFields(logrus.Fields{
				"chapter": subChapter,
				"parent":  chapterID,
				"url":     d.source.ChapterURL(subChapter),
			}).Info("Crawling sub-chapter")
			results[i], _ = d.downloadPages(ctx, subChapter)
			return nil
		})
	}
	g.Wait()

	for _, r := range results {
		outcomes = append(outcomes, r...)
	}
	return outcomes
}

// downloadPages fetches one page and downloads its images under tag.
// It reports false when the page itself could not be fetched.
func (d *Downloader) downloadPages(ctx context.Context, tag string) ([]data.Outcome, bool) {
	d.sendProgress(DownloadProgress{ChapterID: tag, Status: "crawling"})

	pages, err := d.source.GetPages(ctx, tag)
	if err != nil {
		d.log.WithField("chapter", tag).WithError(err).Warn("Failed to process chapter")
		d.sendProgress(DownloadProgress{ChapterID: tag, Status: "error", Error: err})
		return []data.Outcome{d.chapterFailure(tag, err)}, false
	}

	d.sendProgress(DownloadProgress{ChapterID: tag, TotalPages: len(pages), Status: "downloading"})

	outcomes := make([]data.Outcome, len(pages))
	var done atomic.Int32
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for i, pageURL := range pages {
		i, pageURL := i, pageURL
		g.Go(func() error {
			outcomes[i] = d.downloadImage(ctx, tag, pageURL)
			d.sendProgress(DownloadProgress{
				ChapterID:   tag,
				CurrentPage: int(done.Add(1)),
				TotalPages:  len(pages),
				Status:      "downloading",
			})
			return nil
		})
	}
	g.Wait()

	d.sendProgress(DownloadProgress{ChapterID: tag, CurrentPage: len(pages), TotalPages: len(pages), Status: "complete"})
	return outcomes, true
}

func (d *Downloader) downloadImage(ctx context.Context, tag, imageURL string) data.Outcome {
	outcome := data.Outcome{Kind: data.OutcomeImage, Chapter: tag, URL: imageURL}
	log := d.log.WithFields(logrus.Fields{"chapter": tag, "url": imageURL})

	content, err := d.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		log.WithError(err).Warn("Failed to download image")
		outcome.Err = err
		return outcome
	}

	path, err := d.processor.Process(tag, imageURL, content)
	if err != nil {
		log.WithError(err).Warn("Failed to save image")
		outcome.Err = err
		return outcome
	}

	log.WithField("path", path).Info("Downloaded image")
	outcome.Path = path
	return outcome
}

func (d *Downloader) chapterFailure(tag string, err error) data.Outcome {
	return data.Outcome{
		Kind:    data.OutcomeChapter,
		Chapter: tag,
		URL:     d.source.ChapterURL(tag),
		Err:     err,
	}
}

// sendProgress sends a progress update (non-blocking)
func (d *Downloader) sendProgress(progress DownloadProgress) {
	if d.progressChan == nil {
		return
	}
	select {
	case d.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
