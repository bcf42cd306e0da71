package pointcloud

import (
	"errors"
	"image"
	"testing"

	"github.com/tdewolff/test"
)

func rasterize(t *testing.T, path string, size int) *Mask {
	t.Helper()
	m, err := Rasterize(NewCurve(MustParseSVGPath(path)), size, 1.0)
	test.Error(t, err)
	return m
}

func TestRasterizeSquare(t *testing.T) {
	m := rasterize(t, "M0 0h100v100h-100z", 200)
	test.T(t, m.Size(), 200)
	test.T(t, m.Image().Bounds(), image.Rect(0, 0, 200, 200))

	// centered, so the square covers [50,150)
	test.That(t, m.Inside(100.0, 100.0))
	test.That(t, m.Inside(50.5, 50.5))
	test.That(t, m.Inside(149.5, 149.5))
	test.That(t, !m.Inside(49.5, 100.0))
	test.That(t, !m.Inside(150.5, 100.0))
	test.That(t, !m.Inside(10.0, 10.0))

	n := m.Opaque()
	test.That(t, 9900 <= n && n <= 10400, "opaque pixels", n)
}

func TestRasterizeCentering(t *testing.T) {
	m := rasterize(t, "M1000 1000h10v10h-10z", 100)
	test.That(t, m.Inside(50.0, 50.0))
	test.That(t, m.Inside(46.0, 54.0))
	test.That(t, !m.Inside(40.0, 40.0))
	test.That(t, !m.Inside(60.0, 50.0))

	// larger than the raster, clipped on both sides
	m = rasterize(t, "M-100 -10h400v20h-400z", 100)
	test.That(t, m.Inside(0.0, 50.0))
	test.That(t, m.Inside(99.0, 50.0))
	test.That(t, !m.Inside(50.0, 30.0))
}

func TestRasterizeSubpaths(t *testing.T) {
	// inner square in opposite direction is a hole
	m := rasterize(t, "M0 0h100v100h-100zM25 25v50h50v-50z", 200)
	test.That(t, m.Inside(60.0, 60.0))
	test.That(t, !m.Inside(100.0, 100.0))

	// disjoint shapes
	m = rasterize(t, "M0 0h20v20h-20zM80 0h20v20h-20z", 100)
	test.That(t, m.Inside(10.0, 50.0))
	test.That(t, m.Inside(90.0, 50.0))
	test.That(t, !m.Inside(50.0, 50.0))
}

func TestRasterizeCurved(t *testing.T) {
	// circle of radius 40
	m := rasterize(t, "M10 50A40 40 0 0 1 90 50A40 40 0 0 1 10 50z", 100)
	test.That(t, m.Inside(50.0, 50.0))
	test.That(t, m.Inside(50.0, 12.0))
	test.That(t, !m.Inside(15.0, 15.0))

	n := float64(m.Opaque())
	area := 3.14159265 * 40.0 * 40.0
	test.That(t, 0.95*area < n && n < 1.1*area, "opaque pixels", n, "for area", area)
}

func TestRasterizeDegenerate(t *testing.T) {
	var tts = []string{
		"",
		"M5 5",
		"M5 5z",
		"M0 0L10 10",
		"M0 0L10 0L20 0z",
	}
	for _, tt := range tts {
		t.Run(tt, func(t *testing.T) {
			m := rasterize(t, tt, 64)
			test.T(t, m.Opaque(), 0)
		})
	}
}

func TestRasterizeErrors(t *testing.T) {
	c := NewCurve(MustParseSVGPath("M0 0h10v10h-10z"))
	_, err := Rasterize(c, 0, 1.0)
	test.That(t, errors.Is(err, ErrRaster), err)
	_, err = Rasterize(c, MaxSize+1, 1.0)
	test.That(t, errors.Is(err, ErrRaster), err)
	_, err = Rasterize(c, 64, 0.0)
	test.That(t, errors.Is(err, ErrRaster), err)

	c = NewCurve(MustParseSVGPath("M0 0L1e300 0L1e300 1e300z"))
	_, err = Rasterize(c, 64, 1.0)
	test.That(t, errors.Is(err, ErrRaster), err)

	c = NewCurve(MustParseSVGPath("M0 0L1e9 0L1e9 1e9z"))
	_, err = Rasterize(c, 64, 1.0)
	test.That(t, errors.Is(err, ErrRaster), err)
}

func TestMaskInside(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 4, 4))
	img.Pix[1*img.Stride+2] = 1
	m := NewMask(img)
	test.T(t, m.Size(), 4)
	test.T(t, m.Opaque(), 1)

	test.That(t, m.Inside(2.0, 1.0))
	test.That(t, m.Inside(2.99, 1.99))
	test.That(t, !m.Inside(3.0, 1.0))
	test.That(t, !m.Inside(1.99, 1.0))
	test.That(t, !m.Inside(-0.5, 0.0))
	test.That(t, !m.Inside(4.0, 0.0))
	test.That(t, !m.Inside(0.0, 100.0))
}
