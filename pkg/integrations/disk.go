package integrations

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerbaras/mangagrab/pkg/utils"
	"github.com/spf13/afero"
)

// DefaultSaveDir is where images land unless configured otherwise
const DefaultSaveDir = "manga_images"

// WriteError reports a failed image write
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DiskWriter stores images flat under one directory as chapter_{tag}_{basename}.
// Two images of a chapter sharing a basename overwrite each other.
type DiskWriter struct {
	fs  afero.Fs
	dir string
}

func NewDiskWriter(dir string) *DiskWriter {
	return NewDiskWriterWithFs(afero.NewOsFs(), dir)
}

func NewDiskWriterWithFs(fs afero.Fs, dir string) *DiskWriter {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &DiskWriter{fs: fs, dir: dir}
}

func (w *DiskWriter) Dir() string {
	return w.dir
}

// ImagePath returns the target file for an image of the given chapter tag
func (w *DiskWriter) ImagePath(chapterTag, imageURL string) string {
	return filepath.Join(w.dir, fmt.Sprintf("chapter_%s_%s", chapterTag, utils.Basename(imageURL)))
}

// EnsureDir creates the save directory if needed. Safe to call concurrently.
func (w *DiskWriter) EnsureDir() error {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return &WriteError{Path: w.dir, Err: err}
	}
	return nil
}

func (w *DiskWriter) Process(chapterTag, imageURL string, content []byte) (string, error) {
	if err := w.EnsureDir(); err != nil {
		return "", err
	}

	path := w.ImagePath(chapterTag, imageURL)
	f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}
