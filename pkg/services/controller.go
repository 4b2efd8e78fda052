package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/kerbaras/mangagrab/pkg/data"
	"github.com/kerbaras/mangagrab/pkg/integrations"
	"github.com/kerbaras/mangagrab/pkg/sources"
	"github.com/kerbaras/mangagrab/pkg/utils"
	"github.com/sirupsen/logrus"
)

// InputValidationError is returned when a chapter bound is not a non-negative integer
type InputValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s chapter %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputValidationError) Unwrap() error {
	return e.Err
}

// ParseRange parses the chapter bounds as entered by the user
func ParseRange(start, end string) (data.ChapterRange, error) {
	s, err := parseBound("start", start)
	if err != nil {
		return data.ChapterRange{}, err
	}
	e, err := parseBound("end", end)
	if err != nil {
		return data.ChapterRange{}, err
	}
	return data.ChapterRange{Start: s, End: e}, nil
}

func parseBound(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &InputValidationError{Field: field, Value: value, Err: err}
	}
	if n < 0 {
		return 0, &InputValidationError{Field: field, Value: value, Err: fmt.Errorf("must not be negative")}
	}
	return n, nil
}

var ErrControllerClosed = errors.New("controller closed")

type ControllerConfig struct {
	SaveDir   string
	Workers   int
	Fetcher   utils.Fetcher
	Processor integrations.Processor
	Logger    logrus.FieldLogger
}

// MangaController runs a chapter range end to end
type MangaController struct {
	fetcher      utils.Fetcher
	processor    integrations.Processor
	workers      int
	log          logrus.FieldLogger
	progressChan chan DownloadProgress

	mu      sync.Mutex
	closed  bool
	running sync.WaitGroup
}

func NewMangaController() *MangaController {
	return NewMangaControllerWithConfig(ControllerConfig{})
}

func NewMangaControllerWithConfig(config ControllerConfig) *MangaController {
	if config.Fetcher == nil {
		config.Fetcher = utils.NewHTTPFetcher()
	}
	if config.Processor == nil {
		config.Processor = integrations.NewDiskWriter(config.SaveDir)
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &MangaController{
		fetcher:      config.Fetcher,
		processor:    config.Processor,
		workers:      config.Workers,
		log:          config.Logger,
		progressChan: make(chan DownloadProgress, 100),
	}
}

// GetProgressChannel returns the channel for receiving download progress updates
func (c *MangaController) GetProgressChannel() <-chan DownloadProgress {
	return c.progressChan
}

// Run validates the bounds and downloads chapters start..end in increasing
// order. Per-item failures land in the report; only cancellation stops early.
func (c *MangaController) Run(ctx context.Context, baseURL, start, end string) (*data.Report, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	c.running.Add(1)
	c.mu.Unlock()
	defer c.running.Done()

	chapters, err := ParseRange(start, end)
	if err != nil {
		return nil, err
	}

	source := sources.NewSite(baseURL, c.fetcher)
	downloader := NewDownloader(source, c.fetcher, c.processor, DownloaderOptions{
		Workers:  c.workers,
		Logger:   c.log,
		Progress: c.progressChan,
	})

	report := &data.Report{}
	for chapter := chapters.Start; chapter <= chapters.End; chapter++ {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("download interrupted before chapter %d: %w", chapter, err)
		}
		report.Add(downloader.DownloadChapter(ctx, strconv.Itoa(chapter))...)
		report.Chapters++
	}

	c.log.WithFields(logrus.Fields{
		"chapters":  report.Chapters,
		"attempted": report.Attempted(),
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
	}).Info("Download completed")
	return report, nil
}

// Close rejects new runs, waits for the ones in flight and then closes the
// progress channel. Cancel their contexts first to make it return quickly.
func (c *MangaController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.running.Wait()
	close(c.progressChan)
}
