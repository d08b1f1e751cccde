package pixelate

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

func ParseShape(s string) (Shape, error) {
	switch s {
	case "", "rect":
		return ShapeRect, nil
	case "circle":
		return ShapeCircle, nil
	}
	return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidOptions, s)
}

func (s Shape) String() string {
	if s == ShapeCircle {
		return "circle"
	}
	return "rect"
}

// DefaultOutlineDelta is how much darker than the fill the outline of an
// unmodified block is drawn.
const DefaultOutlineDelta = 20

// Renderer draws one averaged block onto a canvas.
type Renderer struct {
	Shape Shape
	// OutlineDelta darkens the 1px top and left outline of unmodified rect
	// blocks. Zero disables the outline.
	OutlineDelta int
	// Rand feeds the random inset; nil uses the global source.
	Rand *rand.Rand
}

// Draw paints the block at (x, y) of edge size. The footprint is the half-open
// square [x, x+size) x [y, y+size), adjusted by mod and clipped to the canvas.
func (rd *Renderer) Draw(canvas draw.Image, x, y, size int, c color.RGBA, mod Modifier) {
	f := mod.Footprint(image.Rect(x, y, x+size, y+size), rd.Rand)
	if f.Empty() {
		return
	}

	if rd.Shape == ShapeCircle {
		FillEllipse(canvas, f, c)
		return
	}

	// The outline runs along the top and left edges only. The right and bottom
	// edges belong to the next block's outline.
	if mod.Kind == ModNone && rd.OutlineDelta > 0 {
		FillRect(canvas, f, Outline(c, rd.OutlineDelta))
		f.Min = f.Min.Add(image.Pt(1, 1))
		if f.Empty() {
			return
		}
	}
	FillRect(canvas, f, c)
}

// Outline darkens every channel of c by delta, stopping at 0.
func Outline(c color.RGBA, delta int) color.RGBA {
	sub := func(v uint8) uint8 {
		return uint8(max(int(v)-delta, 0))
	}
	return color.RGBA{R: sub(c.R), G: sub(c.G), B: sub(c.B), A: c.A}
}

func FillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// kappa places cubic control points so four curves approximate an ellipse.
const kappa = 0.5522847498

// FillEllipse paints the ellipse inscribed in r.
func FillEllipse(dst draw.Image, r image.Rectangle, c color.Color) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	rx, ry := float32(w)/2, float32(h)/2
	cx, cy := rx, ry
	kx, ky := rx*kappa, ry*kappa

	z := vector.NewRasterizer(w, h)
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}
