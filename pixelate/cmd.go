package pixelate

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/spnarkdnark/pixelator/batch"
	"github.com/spnarkdnark/pixelator/parallel"
)

type CLICmd struct {
	Scan      string   `help:"Source folder to scan" default:"."`
	Dest      string   `help:"Destination folder for pixelated pictures. Relative to scan dir if not absolute." default:"pixelated"`
	Ext       []string `help:"File extensions to process" default:".jpg"`
	PixelSize int      `help:"Edge length of each block in pixels" default:"10" short:"p"`
	Modifier  string   `help:"Block modifier: none, random:MAX, gridx:GAP or gridy:GAP" default:"none" short:"m"`
	Shape     string   `help:"Block shape" enum:"rect,circle" default:"rect"`
	Averaging string   `help:"samples divides by the pixels in a block; square divides by the squared row count, as the legacy pixelator did" enum:"samples,square" default:"samples"`
	Outline   int      `help:"Darken the outline of unmodified blocks by this much, 0 to disable" default:"20"`
	Seed      uint64   `help:"Seed for the random modifier, 0 for a random seed"`
	Quality   int      `help:"JPEG quality" default:"95"`

	Options Options `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	opts := Options{
		PixelSize:    c.PixelSize,
		OutlineDelta: c.Outline,
	}
	if opts.Modifier, err = ParseModifier(c.Modifier); err != nil {
		return err
	}
	if opts.Shape, err = ParseShape(c.Shape); err != nil {
		return err
	}
	if opts.Averaging, err = ParseAveraging(c.Averaging); err != nil {
		return err
	}
	if c.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed))
	}
	if err = opts.Validate(); err != nil {
		return err
	}
	c.Options = opts

	return nil
}

func (c *CLICmd) Run(logger *slog.Logger, pool *parallel.Pool) error {
	logger = logger.With("cmd", "pixelate")
	logger.Info("pixelating", "scan", c.Scan, "dest", c.Dest, "pixel_size", c.Options.PixelSize,
		"modifier", c.Options.Modifier, "shape", c.Options.Shape, "averaging", c.Options.Averaging)

	res, err := Multiple(logger, pool, c.Scan, c.Ext, c.Options)
	if err != nil {
		return err
	}

	if err := batch.Save(logger, res, c.Dest, batch.SaveOptions{Workers: pool.Size, Quality: c.Quality}); err != nil {
		return err
	}
	return res.Err()
}
