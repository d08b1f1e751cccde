package crop

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/spnarkdnark/pixelator/batch"
	"github.com/spnarkdnark/pixelator/parallel"
)

var ErrInvalidCropSize = errors.New("invalid crop size")

// Rect returns the square of edge square centered in a width×height image.
// With an odd size difference the extra pixel stays on the right and bottom.
func Rect(width, height, square int) (image.Rectangle, error) {
	if square < 1 || square > min(width, height) {
		return image.Rectangle{}, fmt.Errorf("%w: %d for %dx%d image", ErrInvalidCropSize, square, width, height)
	}

	dx := (width - square) / 2
	dy := (height - square) / 2
	return image.Rect(dx, dy, dx+square, dy+square), nil
}

// Crop cuts the centered square of edge square out of img. The result's bounds
// start at (0, 0).
func Crop(img image.Image, square int) (image.Image, error) {
	b := img.Bounds()
	r, err := Rect(b.Dx(), b.Dy(), square)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, r.Add(b.Min)), nil
}

// All crops every accepted image in dir, keyed by file name.
func All(logger *slog.Logger, pool *parallel.Pool, dir string, exts []string, square int) (*batch.Result, error) {
	if square < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCropSize, square)
	}

	return batch.Run(logger, pool, dir, exts, func(logger *slog.Logger, _ string, img image.Image) (image.Image, error) {
		b := img.Bounds()
		logger.Debug("cropping", "width", b.Dx(), "height", b.Dy(), "size", square)
		return Crop(img, square)
	})
}
