package pixelate

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 0xFF}
}

func uniformMatrix(t *testing.T, width, height int, c color.RGBA) Matrix {
	t.Helper()
	pix := make([]color.RGBA, width*height)
	for i := range pix {
		pix[i] = c
	}
	m, err := NewMatrix(width, height, pix)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestAverageTruncates(t *testing.T) {
	m, err := NewMatrix(2, 2, []color.RGBA{gray(0), gray(255), gray(255), gray(255)})
	test.That(t, err, test.ShouldBeNil)

	for _, mode := range []Averaging{AverageSamples, AverageSquare} {
		c, err := Average(m, image.Pt(0, 0), 2, mode)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, c, test.ShouldResemble, gray(191))
	}
}

func TestAverageChannels(t *testing.T) {
	m, err := NewMatrix(2, 1, []color.RGBA{
		{R: 10, G: 0, B: 255, A: 0xFF},
		{R: 21, G: 3, B: 0, A: 0xFF},
	})
	test.That(t, err, test.ShouldBeNil)

	c, err := Average(m, image.Pt(0, 0), 2, AverageSamples)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldResemble, color.RGBA{R: 15, G: 1, B: 127, A: 0xFF})
}

func TestAverageClippedBlock(t *testing.T) {
	m := uniformMatrix(t, 3, 3, gray(90))

	for _, tc := range []struct {
		name   string
		corner image.Point
		mode   Averaging
		want   uint8
	}{
		{"right edge samples", image.Pt(2, 0), AverageSamples, 90},
		{"bottom edge samples", image.Pt(0, 2), AverageSamples, 90},
		{"corner samples", image.Pt(2, 2), AverageSamples, 90},
		// one column, two rows: 180 / 2²
		{"right edge square", image.Pt(2, 0), AverageSquare, 45},
		// two columns, one row: 180 / 1²
		{"bottom edge square", image.Pt(0, 2), AverageSquare, 180},
		{"corner square", image.Pt(2, 2), AverageSquare, 90},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Average(m, tc.corner, 2, tc.mode)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, c, test.ShouldResemble, gray(tc.want))
		})
	}
}

func TestAverageSquareClamps(t *testing.T) {
	m := uniformMatrix(t, 3, 1, gray(200))

	c, err := Average(m, image.Pt(0, 0), 3, AverageSquare)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldResemble, gray(255))
}

func TestAverageEmptyBlock(t *testing.T) {
	m := uniformMatrix(t, 3, 3, gray(90))

	for _, tc := range []struct {
		name   string
		corner image.Point
		size   int
	}{
		{"zero size", image.Pt(0, 0), 0},
		{"negative size", image.Pt(1, 1), -2},
		{"outside", image.Pt(3, 0), 2},
		{"far outside", image.Pt(10, 10), 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Average(m, tc.corner, tc.size, AverageSamples)
			test.That(t, errors.Is(err, ErrEmptyBlock), test.ShouldBeTrue)
		})
	}
}

func TestParseAveraging(t *testing.T) {
	a, err := ParseAveraging("square")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a, test.ShouldEqual, AverageSquare)
	test.That(t, a.String(), test.ShouldEqual, "square")

	a, err = ParseAveraging("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a, test.ShouldEqual, AverageSamples)

	_, err = ParseAveraging("median")
	test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)
}
