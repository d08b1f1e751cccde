package pixelate

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/spnarkdnark/pixelator/batch"
	"github.com/spnarkdnark/pixelator/parallel"
)

type Options struct {
	PixelSize    int
	Modifier     Modifier
	Shape        Shape
	Averaging    Averaging
	OutlineDelta int
	Rand         *rand.Rand
}

// DefaultOptions pixelates with plain outlined squares of the given size.
func DefaultOptions(pixelSize int) Options {
	return Options{
		PixelSize:    pixelSize,
		OutlineDelta: DefaultOutlineDelta,
	}
}

func (o Options) Validate() error {
	if o.PixelSize < 1 {
		return fmt.Errorf("%w: pixel size must be positive, got %d", ErrInvalidOptions, o.PixelSize)
	}
	if o.OutlineDelta < 0 {
		return fmt.Errorf("%w: outline delta must not be negative, got %d", ErrInvalidOptions, o.OutlineDelta)
	}
	return o.Modifier.Validate()
}

// Render returns a new canvas the size of img where every PixelSize block is
// replaced by its average color. Blocks on the right and bottom edges are
// averaged over the pixels they actually cover and drawn clipped.
func Render(logger *slog.Logger, img image.Image, opts Options) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m, err := MatrixFromImage(img)
	if err != nil {
		return nil, err
	}

	width, height := m.Width(), m.Height()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	FillRect(canvas, canvas.Rect, color.White)

	rd := &Renderer{
		Shape:        opts.Shape,
		OutlineDelta: opts.OutlineDelta,
		Rand:         opts.Rand,
	}

	logger.Debug("pixelating", "width", width, "height", height,
		"pixel_size", opts.PixelSize, "modifier", opts.Modifier, "shape", opts.Shape)

	var blocks int
	for x := 0; x < width; x += opts.PixelSize {
		for y := 0; y < height; y += opts.PixelSize {
			c, err := Average(m, image.Pt(x, y), opts.PixelSize, opts.Averaging)
			if err != nil {
				return nil, fmt.Errorf("could not average block at %d,%d: %w", x, y, err)
			}
			rd.Draw(canvas, x, y, opts.PixelSize, c, opts.Modifier)
			blocks++
		}
	}

	logger.Debug("pixelated", "blocks", blocks)
	return canvas, nil
}

// Multiple renders every accepted image in dir, keyed by file name. A seeded
// opts.Rand is split into one stream per file name, so output does not depend
// on the worker count or scheduling.
func Multiple(logger *slog.Logger, pool *parallel.Pool, dir string, exts []string, opts Options) (*batch.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var seed uint64
	if opts.Rand != nil {
		seed = opts.Rand.Uint64()
	}

	return batch.Run(logger, pool, dir, exts, func(logger *slog.Logger, name string, img image.Image) (image.Image, error) {
		fileOpts := opts
		if opts.Rand != nil {
			h := fnv.New64a()
			h.Write([]byte(name))
			fileOpts.Rand = rand.New(rand.NewPCG(seed, h.Sum64()))
		}
		return Render(logger, img, fileOpts)
	})
}
