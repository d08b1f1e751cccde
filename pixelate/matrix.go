package pixelate

import (
	"fmt"
	"image"
	"image/color"
)

// Matrix holds the pixels of an image as rows of opaque RGB colors, so that
// m[y][x] is the pixel in row y and column x.
type Matrix [][]color.RGBA

// NewMatrix reshapes a flat row-major pixel sequence into a Matrix.
func NewMatrix(width, height int, pix []color.RGBA) (Matrix, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidImage, len(pix), width, height)
	}

	m := make(Matrix, height)
	for y := range height {
		m[y] = pix[y*width : (y+1)*width : (y+1)*width]
	}
	return m, nil
}

// MatrixFromImage flattens img, relative to its bounds origin, and reshapes it.
func MatrixFromImage(img image.Image) (Matrix, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}

	b := img.Bounds()
	pix := make([]color.RGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, opaque(img.At(x, y)))
		}
	}
	return NewMatrix(b.Dx(), b.Dy(), pix)
}

func (m Matrix) Height() int {
	return len(m)
}

func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func opaque(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xFF}
}
