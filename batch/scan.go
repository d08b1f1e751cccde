package batch

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// DefaultExtensions are the file extensions processed when none are given.
var DefaultExtensions = []string{".jpg"}

// NormalizeExtensions lowercases exts and adds the leading dot where missing.
// An empty list yields DefaultExtensions.
func NormalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return slices.Clone(DefaultExtensions)
	}

	res := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(res, ext) {
			res = append(res, ext)
		}
	}
	if len(res) == 0 {
		return slices.Clone(DefaultExtensions)
	}
	return res
}

// Accept reports ErrUnsupportedFormat unless name has one of exts, compared
// case-insensitively.
func Accept(name string, exts []string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if slices.Contains(NormalizeExtensions(exts), ext) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Load opens and decodes the image at path, returning the decoder's format
// name.
func Load(logger *slog.Logger, path string) (image.Image, string, error) {
	imgFile, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			logger.Warn("could not close image", "error", closeErr)
		}
	}()

	img, imgType, err := image.Decode(imgFile)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not decode %q: %w", ErrInvalidImage, path, err)
	}
	return img, imgType, nil
}
