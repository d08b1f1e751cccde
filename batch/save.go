package batch

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"
)

// DefaultQuality is the JPEG quality used when SaveOptions leaves it unset.
const DefaultQuality = 95

type SaveOptions struct {
	// Workers bounds the number of files written at once; < 1 means no bound.
	Workers int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// Save writes every processed image in res to dest under its source file name.
// The encoder is picked by the file extension, falling back to the decoded
// format when the extension has none. A file that fails to save moves from
// res.Images to res.Errors; the others are still written.
func Save(logger *slog.Logger, res *Result, dest string, opts SaveOptions) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", dest, err)
	}

	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var g errgroup.Group
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for _, fileName := range res.Names() {
		img, format := res.get(fileName)
		if f := FormatFor(fileName); f != "" {
			format = f
		}
		g.Go(func() error {
			fileLog := logger.With("file", filepath.Join(dest, fileName))
			fileLog.Debug("saving", "format", format)
			if err := save(img, dest, fileName, format, quality); err != nil {
				res.unsave(fileName, err)
				fileLog.Error("could not save image", "error", err)
			}
			return nil
		})
	}
	// no task returns an error
	_ = g.Wait()

	return nil
}

func save(img image.Image, destDir, fileName, format string, quality int) (err error) {
	outFile, err := os.CreateTemp(destDir, fileName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", fileName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", fileName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", fileName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, fileName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", fileName, defErr)
			}
		}
		if err != nil {
			os.Remove(outFile.Name())
		}
	}()

	if err = EncodeFormat(outFile, img, format, quality); err != nil {
		return fmt.Errorf("could not encode destination %q: %w", fileName, err)
	}

	canRename = true
	return nil
}

// FormatFor maps fileName's extension to an encoder format name, or "" when
// no encoder handles it.
func FormatFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return ""
}

// Encode writes img to w in the format named by fileName's extension.
func Encode(w io.Writer, img image.Image, fileName string, quality int) error {
	return EncodeFormat(w, img, FormatFor(fileName), quality)
}

// EncodeFormat writes img to w as format, using the names image.Decode
// reports.
func EncodeFormat(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("%w: no encoder for %q", ErrUnsupportedFormat, format)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
