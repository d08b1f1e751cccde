package pixelate

import (
	"fmt"
	"image"
	"image/color"
)

type Averaging int

const (
	// AverageSamples divides each channel sum by the number of pixels actually
	// inside the clipped block.
	AverageSamples Averaging = iota
	// AverageSquare divides by the square of the clipped row count, which
	// matches the legacy pixelator output on blocks cut by the image edge.
	AverageSquare
)

func ParseAveraging(s string) (Averaging, error) {
	switch s {
	case "", "samples":
		return AverageSamples, nil
	case "square":
		return AverageSquare, nil
	}
	return 0, fmt.Errorf("%w: unknown averaging %q", ErrInvalidOptions, s)
}

func (a Averaging) String() string {
	if a == AverageSquare {
		return "square"
	}
	return "samples"
}

// Average returns the mean color of the size×size block at corner, clipped to
// the matrix. Channels are truncated.
func Average(m Matrix, corner image.Point, size int, mode Averaging) (color.RGBA, error) {
	block := image.Rect(corner.X, corner.Y, corner.X+size, corner.Y+size).
		Intersect(image.Rect(0, 0, m.Width(), m.Height()))
	if size <= 0 || block.Empty() {
		return color.RGBA{}, fmt.Errorf("%w: %d px at %v", ErrEmptyBlock, size, corner)
	}

	var r, g, b uint64
	for y := block.Min.Y; y < block.Max.Y; y++ {
		row := m[y]
		for x := block.Min.X; x < block.Max.X; x++ {
			r += uint64(row[x].R)
			g += uint64(row[x].G)
			b += uint64(row[x].B)
		}
	}

	n := uint64(block.Dx() * block.Dy())
	if mode == AverageSquare {
		n = uint64(block.Dy() * block.Dy())
	}

	return color.RGBA{R: channel(r, n), G: channel(g, n), B: channel(b, n), A: 0xFF}, nil
}

func channel(sum, n uint64) uint8 {
	return uint8(min(sum/n, 0xFF))
}
