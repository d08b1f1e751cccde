package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/spnarkdnark/pixelator/config"
	"github.com/spnarkdnark/pixelator/crop"
	"github.com/spnarkdnark/pixelator/logging"
	"github.com/spnarkdnark/pixelator/parallel"
	"github.com/spnarkdnark/pixelator/pixelate"
)

type CLI struct {
	Config    kong.ConfigFlag `help:"Load flag values from a YAML file"`
	LogLevel  string          `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string          `help:"Log output format" enum:"text,json" default:"text"`
	Workers   int             `help:"Number of images processed in parallel, 0 for one per CPU" default:"0"`

	Pixelate pixelate.CLICmd `cmd:"" help:"Pixelate images by averaging fixed-size blocks"`
	Crop     crop.CLICmd     `cmd:"" help:"Crop images to a centered square"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pixelator"),
		kong.Description("Batch pixelation and square cropping of images."),
		kong.UsageOnError(),
		kong.Configuration(config.YAML, "pixelator.yaml", "~/.config/pixelator.yaml"),
	)

	logger, err := logging.New(os.Stderr, cli.LogLevel, cli.LogFormat)
	kctx.FatalIfErrorf(err)
	slog.SetDefault(logger)

	pool := parallel.Start(cli.Workers)
	defer pool.Wait(true)

	if err := kctx.Run(logger, pool); err != nil {
		logger.Error("command failed", "cmd", kctx.Command(), "error", err)
		pool.Wait(true)
		os.Exit(1)
	}
}
