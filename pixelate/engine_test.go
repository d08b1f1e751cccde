package pixelate

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/spnarkdnark/pixelator/parallel"
)

var discard = slog.New(slog.DiscardHandler)

func uniformImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	FillRect(img, img.Rect, c)
	return img
}

func noisyImage(w, h int, seed uint64) *image.RGBA {
	rnd := rand.New(rand.NewPCG(seed, seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rnd.IntN(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return img
}

func TestRenderUniform(t *testing.T) {
	c := color.RGBA{R: 12, G: 130, B: 240, A: 0xFF}
	img := uniformImage(12, 8, c)

	for _, size := range []int{1, 2, 4} {
		opts := DefaultOptions(size)
		opts.OutlineDelta = 0
		canvas, err := Render(discard, img, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, canvas.Pix, test.ShouldResemble, img.Pix)
	}

	canvas, err := Render(discard, img, DefaultOptions(4))
	test.That(t, err, test.ShouldBeNil)
	for _, p := range []image.Point{{1, 1}, {2, 2}, {5, 1}, {10, 6}} {
		test.That(t, canvas.RGBAAt(p.X, p.Y), test.ShouldResemble, c)
	}
	test.That(t, canvas.RGBAAt(4, 4), test.ShouldResemble, Outline(c, DefaultOutlineDelta))
}

func TestRenderTwoByTwo(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	FillRect(img, img.Rect, color.White)
	img.SetRGBA(0, 0, color.RGBA{A: 0xFF})

	opts := DefaultOptions(2)
	opts.OutlineDelta = 0
	canvas, err := Render(discard, img, opts)
	test.That(t, err, test.ShouldBeNil)
	for y := range 2 {
		for x := range 2 {
			test.That(t, canvas.RGBAAt(x, y), test.ShouldResemble, gray(191))
		}
	}
}

func TestRenderUnevenBounds(t *testing.T) {
	img := noisyImage(7, 5, 3)

	for _, opts := range []Options{
		DefaultOptions(3),
		{PixelSize: 4, Modifier: GridGapX(1)},
		{PixelSize: 5, Shape: ShapeCircle},
		{PixelSize: 10, Averaging: AverageSquare},
	} {
		canvas, err := Render(discard, img, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, canvas.Bounds(), test.ShouldResemble, image.Rect(0, 0, 7, 5))
	}
}

func TestRenderSquareAveragingEdges(t *testing.T) {
	img := uniformImage(3, 3, gray(90))

	opts := Options{PixelSize: 2, Averaging: AverageSquare}
	canvas, err := Render(discard, img, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, canvas.RGBAAt(0, 0), test.ShouldResemble, gray(90))
	test.That(t, canvas.RGBAAt(2, 0), test.ShouldResemble, gray(45))
	test.That(t, canvas.RGBAAt(0, 2), test.ShouldResemble, gray(180))
	test.That(t, canvas.RGBAAt(2, 2), test.ShouldResemble, gray(90))
}

func TestRenderOffsetBounds(t *testing.T) {
	src := noisyImage(8, 8, 9)
	sub := src.SubImage(image.Rect(2, 2, 6, 6))

	canvas, err := Render(discard, sub, Options{PixelSize: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, canvas.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 4))
	test.That(t, canvas.RGBAAt(0, 0), test.ShouldResemble, src.RGBAAt(2, 2))
	test.That(t, canvas.RGBAAt(3, 3), test.ShouldResemble, src.RGBAAt(5, 5))
}

func TestRenderIdempotent(t *testing.T) {
	img := noisyImage(33, 21, 5)

	a, err := Render(discard, img, DefaultOptions(4))
	test.That(t, err, test.ShouldBeNil)
	b, err := Render(discard, img, DefaultOptions(4))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bytes.Equal(a.Pix, b.Pix), test.ShouldBeTrue)

	opts := Options{PixelSize: 5, Modifier: RandomInset(2)}
	opts.Rand = rand.New(rand.NewPCG(42, 0))
	a, err = Render(discard, img, opts)
	test.That(t, err, test.ShouldBeNil)
	opts.Rand = rand.New(rand.NewPCG(42, 0))
	b, err = Render(discard, img, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bytes.Equal(a.Pix, b.Pix), test.ShouldBeTrue)
}

func TestRenderInvalidOptions(t *testing.T) {
	img := uniformImage(4, 4, color.Black)

	for _, opts := range []Options{
		{PixelSize: 0},
		{PixelSize: -3},
		{PixelSize: 2, Modifier: Modifier{Kind: ModGridGapX}},
		{PixelSize: 2, Modifier: Modifier{Kind: ModifierKind(9), Amount: 1}},
		{PixelSize: 2, OutlineDelta: -1},
	} {
		canvas, err := Render(discard, img, opts)
		test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)
		test.That(t, canvas, test.ShouldBeNil)
	}

	_, err := Render(discard, image.NewRGBA(image.Rectangle{}), DefaultOptions(2))
	test.That(t, errors.Is(err, ErrInvalidImage), test.ShouldBeTrue)
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	test.That(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}), test.ShouldBeNil)
	test.That(t, os.WriteFile(path, buf.Bytes(), 0o644), test.ShouldBeNil)
}

func TestMultiple(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"), noisyImage(20, 16, 1))
	writeJPEG(t, filepath.Join(dir, "b.jpg"), noisyImage(9, 30, 2))
	test.That(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644), test.ShouldBeNil)
	test.That(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755), test.ShouldBeNil)

	for _, workers := range []int{1, 3} {
		pool := parallel.Start(workers)
		opts := DefaultOptions(4)
		opts.Modifier = RandomInset(1)
		opts.Rand = rand.New(rand.NewPCG(1, 1))

		res, err := Multiple(discard, pool, dir, nil, opts)
		pool.Wait(true)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Names(), test.ShouldResemble, []string{"a.jpg", "b.jpg"})
		test.That(t, res.Images["a.jpg"].Bounds(), test.ShouldResemble, image.Rect(0, 0, 20, 16))
		test.That(t, res.Images["b.jpg"].Bounds(), test.ShouldResemble, image.Rect(0, 0, 9, 30))
		test.That(t, res.Skipped, test.ShouldResemble, []string{"notes.txt"})
		test.That(t, res.Errors, test.ShouldHaveLength, 1)
		test.That(t, errors.Is(res.Errors["broken.jpg"], ErrInvalidImage), test.ShouldBeTrue)
		test.That(t, res.Err(), test.ShouldNotBeNil)
	}
}

func TestMultipleSeededIsStable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		writeJPEG(t, filepath.Join(dir, name), noisyImage(16, 16, uint64(len(name))))
	}

	run := func(workers int) map[string][]byte {
		pool := parallel.Start(workers)
		defer pool.Wait(true)
		opts := Options{PixelSize: 4, Modifier: RandomInset(2), Rand: rand.New(rand.NewPCG(5, 5))}
		res, err := Multiple(discard, pool, dir, []string{"jpg"}, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Err(), test.ShouldBeNil)
		out := map[string][]byte{}
		for name, img := range res.Images {
			out[name] = img.(*image.RGBA).Pix
		}
		return out
	}

	test.That(t, run(1), test.ShouldResemble, run(4))
}

func TestMultipleMissingDir(t *testing.T) {
	pool := parallel.Start(1)
	_, err := Multiple(discard, pool, filepath.Join(t.TempDir(), "missing"), nil, DefaultOptions(2))
	test.That(t, err, test.ShouldNotBeNil)
}
