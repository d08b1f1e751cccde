package batch

import (
	"fmt"
	"image"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spnarkdnark/pixelator/parallel"
)

// Transform turns one decoded image into its processed version.
type Transform func(logger *slog.Logger, name string, img image.Image) (image.Image, error)

// Result collects the outcome of a directory run. Images, Formats and Errors
// are keyed by the source file name; a name appears in at most one of Images,
// Errors and Skipped. Formats holds the decoder's format name of each
// processed image.
type Result struct {
	Images  map[string]image.Image
	Formats map[string]string
	Errors  map[string]error
	Skipped []string

	mu sync.Mutex
}

func NewResult() *Result {
	return &Result{
		Images:  make(map[string]image.Image),
		Formats: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

func (r *Result) add(name, format string, img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Images[name] = img
	r.Formats[name] = format
}

func (r *Result) fail(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors[name] = err
}

func (r *Result) get(name string) (image.Image, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Images[name], r.Formats[name]
}

// unsave records a save failure for an image that was processed.
func (r *Result) unsave(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Images, name)
	r.Errors[name] = err
}

func (r *Result) skip(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, name)
}

// Names returns the processed file names in sorted order.
func (r *Result) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.Images))
	for name := range r.Images {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Err summarizes per-file failures, or returns nil when there were none.
func (r *Result) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return nil
	}
	names := slices.Sorted(maps.Keys(r.Errors))
	return fmt.Errorf("error processing %d files: %s", len(names), strings.Join(names, ", "))
}

// Run decodes every file in dir matching exts and applies fn to it on the
// pool. Files with other extensions are skipped with a warning; a failure on
// one file is recorded in Result.Errors and does not stop the others.
func Run(logger *slog.Logger, pool *parallel.Pool, dir string, exts []string, fn Transform) (*Result, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	exts = NormalizeExtensions(exts)
	res := NewResult()
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		if err := Accept(fileName, exts); err != nil {
			res.skip(fileName)
			logger.Warn("skipping file", "file", fileName, "error", err)
			continue
		}

		pool.Do(func() {
			filePath := filepath.Join(dir, fileName)
			fileLog := logger.With("file", filePath)

			img, imgType, err := Load(fileLog, filePath)
			if err != nil {
				res.fail(fileName, err)
				fileLog.Error("could not load image", "error", err)
				return
			}

			out, err := fn(fileLog, fileName, img)
			if err != nil {
				res.fail(fileName, err)
				fileLog.Error("could not process image", "error", err)
				return
			}
			res.add(fileName, imgType, out)
		})
	}

	pool.Wait(false)

	processed, failed, skipped := len(res.Images), len(res.Errors), len(res.Skipped)
	logger.Info("stats", "processed", processed, "errors", failed, "skipped", skipped,
		"total", processed+failed+skipped)

	return res, nil
}
