package pointcloud

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/vector"
)

// MaxSize is the largest supported raster resolution.
const MaxSize = 16384

// maxOutline is the largest number of outline samples per shape.
const maxOutline = 1 << 24

// Mask is a square alpha mask of a filled silhouette.
type Mask struct {
	img  *image.Alpha
	size int
}

// Rasterize fills the outline of c, flattened at the given arc length step, into a size×size
// alpha mask. The shape is translated so that the center of its bounding box lands on the
// center of the mask. Shapes without area result in an empty mask.
func Rasterize(c *Curve, size int, step float64) (*Mask, error) {
	if size <= 0 || MaxSize < size {
		return nil, fmt.Errorf("%w: bad raster size %d", ErrRaster, size)
	} else if !(0.0 < step) {
		return nil, fmt.Errorf("%w: bad outline step %v", ErrRaster, step)
	}

	b := c.Bounds()
	center := b.Center()
	dx := float64(size)/2.0 - center[0]
	dy := float64(size)/2.0 - center[1]
	for _, v := range []float64{b.Min[0] + dx, b.Max[0] + dx, b.Min[1] + dy, b.Max[1] + dy} {
		if !(math.Abs(v) <= math.MaxFloat32) {
			return nil, fmt.Errorf("%w: coordinates out of range: %v-%v", ErrRaster, b.Min, b.Max)
		}
	}
	if maxOutline < c.Length()/step {
		return nil, fmt.Errorf("%w: outline of length %g is too long for step %g", ErrRaster, c.Length(), step)
	}

	ras := vector.NewRasterizer(size, size)
	for _, ring := range c.Outline(step) {
		if len(ring) < 3 {
			continue // cannot enclose any area
		}
		ras.MoveTo(float32(ring[0][0]+dx), float32(ring[0][1]+dy))
		for _, q := range ring[1:] {
			ras.LineTo(float32(q[0]+dx), float32(q[1]+dy))
		}
		ras.ClosePath()
	}

	img := image.NewAlpha(image.Rect(0, 0, size, size))
	ras.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	return &Mask{img, size}, nil
}

// NewMask returns a mask backed by img, which must be square.
func NewMask(img *image.Alpha) *Mask {
	size := img.Bounds().Dx()
	if img.Bounds().Dy() < size {
		size = img.Bounds().Dy()
	}
	return &Mask{img, size}
}

// Size returns the width and height of the mask in pixels.
func (m *Mask) Size() int {
	return m.size
}

// Inside returns true if the pixel at (floor(x),floor(y)) has a nonzero alpha value. Points
// outside the mask are never inside.
func (m *Mask) Inside(x, y float64) bool {
	if !(0.0 <= x && x < float64(m.size) && 0.0 <= y && y < float64(m.size)) {
		return false
	}
	r := m.img.Rect
	return m.img.AlphaAt(r.Min.X+int(x), r.Min.Y+int(y)).A != 0
}

// Opaque returns the number of pixels with a nonzero alpha value.
func (m *Mask) Opaque() int {
	n := 0
	for y := 0; y < m.size; y++ {
		row := m.img.Pix[y*m.img.Stride : y*m.img.Stride+m.size]
		for _, a := range row {
			if a != 0 {
				n++
			}
		}
	}
	return n
}

// Image returns the underlying alpha image.
func (m *Mask) Image() *image.Alpha {
	return m.img
}
