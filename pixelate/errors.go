package pixelate

import (
	"errors"

	"github.com/spnarkdnark/pixelator/batch"
)

var (
	// ErrInvalidImage is shared with batch so a decode failure and a malformed
	// pixel buffer match the same errors.Is check.
	ErrInvalidImage   = batch.ErrInvalidImage
	ErrEmptyBlock     = errors.New("empty block")
	ErrInvalidOptions = errors.New("invalid options")
)
