package crop

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/spnarkdnark/pixelator/batch"
	"github.com/spnarkdnark/pixelator/parallel"
)

type CLICmd struct {
	Scan    string   `help:"Source folder to scan" default:"."`
	Dest    string   `help:"Destination folder for cropped pictures. Relative to scan dir if not absolute." default:"cropped"`
	Ext     []string `help:"File extensions to process" default:".jpg"`
	Size    int      `help:"Edge length of the centered square" required:"" short:"s"`
	Quality int      `help:"JPEG quality" default:"95"`
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

	if c.Size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCropSize, c.Size)
	}

	return nil
}

func (c *CLICmd) Run(logger *slog.Logger, pool *parallel.Pool) error {
	logger = logger.With("cmd", "crop")
	logger.Info("cropping", "scan", c.Scan, "dest", c.Dest, "size", c.Size)

	res, err := All(logger, pool, c.Scan, c.Ext, c.Size)
	if err != nil {
		return err
	}

	if err := batch.Save(logger, res, c.Dest, batch.SaveOptions{Workers: pool.Size, Quality: c.Quality}); err != nil {
		return err
	}
	return res.Err()
}
