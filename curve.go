package pointcloud

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// chebyshevN is the number of Chebyshev nodes used to approximate the inverse arc length of curved segments.
const chebyshevN = 20

// segment is a drawable piece of a path parameterised by arc length.
type segment interface {
	Length() float64
	PointAt(s float64) Point // s in [0,Length()]
	Bounds(b orb.Bound) orb.Bound
}

// Curve is a read-only arc length parameterisation of a path. Gaps between subpaths do not
// contribute to the length.
type Curve struct {
	segs    []segment
	ends    []float64 // cumulative length at the end of each segment
	subpath []int     // subpath index of each segment
	starts  []Point   // start point of each subpath
	bounds  orb.Bound
	length  float64
}

// NewCurve builds the arc length parameterisation of p. Zero-length segments are dropped.
func NewCurve(p *Path) *Curve {
	c := &Curve{}
	first := true
	extend := func(q Point) {
		if first {
			c.bounds = orb.Bound{Min: q.orb(), Max: q.orb()}
			first = false
		} else {
			c.bounds = c.bounds.Extend(q.orb())
		}
	}

	s := p.Scanner()
	for s.Scan() {
		start, end := s.Start(), s.End()
		var seg segment
		switch s.Cmd() {
		case MoveToCmd:
			c.starts = append(c.starts, end)
			extend(end)
			continue
		case LineToCmd, CloseCmd:
			seg = newLineSegment(start, end)
		case QuadToCmd:
			seg = newQuadSegment(start, s.CP1(), end)
		case CubeToCmd:
			seg = newCubeSegment(start, s.CP1(), s.CP2(), end)
		case ArcToCmd:
			rx, ry, rot, large, sweep := s.Arc()
			seg = newArcSegment(start, rx, ry, rot, large, sweep, end)
		}
		extend(end)

		length := seg.Length()
		if !(Epsilon < length) || math.IsInf(length, 0) {
			continue
		}
		c.bounds = seg.Bounds(c.bounds)
		c.length += length
		c.segs = append(c.segs, seg)
		c.ends = append(c.ends, c.length)
		c.subpath = append(c.subpath, len(c.starts)-1)
	}
	return c
}

// Length returns the total arc length.
func (c *Curve) Length() float64 {
	return c.length
}

// Bounds returns the bounding box of the path in its own coordinate space.
func (c *Curve) Bounds() orb.Bound {
	return c.bounds
}

// Size returns the width and height of the bounding box.
func (c *Curve) Size() (float64, float64) {
	return c.bounds.Max[0] - c.bounds.Min[0], c.bounds.Max[1] - c.bounds.Min[1]
}

// PointAt returns the position at arc length t, where t is clamped to [0,Length()].
func (c *Curve) PointAt(t float64) Point {
	if len(c.segs) == 0 {
		if len(c.starts) == 0 {
			return Point{}
		}
		return c.starts[0]
	}
	t = math.Max(0.0, math.Min(c.length, t))
	k := sort.SearchFloat64s(c.ends, t)
	if k == len(c.segs) {
		k--
	}
	offset := 0.0
	if 0 < k {
		offset = c.ends[k-1]
	}
	return c.segs[k].PointAt(t - offset)
}

// Outline flattens the curve by sampling it at fixed arc length steps from 0 to Length()
// inclusive. Samples are grouped into one closed ring per subpath. Highly curved parts are
// sampled as sparsely as straight parts.
func (c *Curve) Outline(step float64) []orb.Ring {
	if !(0.0 < step) {
		step = 1.0
	}
	if len(c.segs) == 0 {
		rings := make([]orb.Ring, 0, len(c.starts))
		for _, start := range c.starts {
			rings = append(rings, orb.Ring{start.orb()})
		}
		return rings
	}

	rings := make([]orb.Ring, len(c.starts))
	k := 0
	for n := 0; ; n++ {
		t := float64(n) * step
		if c.length < t {
			break
		}
		for k+1 < len(c.segs) && c.ends[k] < t {
			k++
		}
		offset := 0.0
		if 0 < k {
			offset = c.ends[k-1]
		}
		q := c.segs[k].PointAt(math.Min(t-offset, c.segs[k].Length()))
		rings[c.subpath[k]] = append(rings[c.subpath[k]], q.orb())
	}

	outline := rings[:0]
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		} else if 2 < len(ring) && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		outline = append(outline, ring)
	}
	return outline
}

////////////////////////////////////////////////////////////////

type lineSegment struct {
	p0, p1 Point
	length float64
}

func newLineSegment(p0, p1 Point) *lineSegment {
	return &lineSegment{p0, p1, p1.Sub(p0).Length()}
}

func (l *lineSegment) Length() float64 {
	return l.length
}

func (l *lineSegment) PointAt(s float64) Point {
	return l.p0.Interpolate(l.p1, s/l.length)
}

func (l *lineSegment) Bounds(b orb.Bound) orb.Bound {
	return b.Extend(l.p0.orb()).Extend(l.p1.orb())
}

////////////////////////////////////////////////////////////////

func quadraticBezierPos(p0, p1, p2 Point, t float64) Point {
	p0 = p0.Mul((1.0 - t) * (1.0 - t))
	p1 = p1.Mul(2.0 * t * (1.0 - t))
	p2 = p2.Mul(t * t)
	return p0.Add(p1).Add(p2)
}

func quadraticBezierDeriv(p0, p1, p2 Point, t float64) Point {
	p0 = p0.Mul(-2.0 + 2.0*t)
	p1 = p1.Mul(2.0 - 4.0*t)
	p2 = p2.Mul(2.0 * t)
	return p0.Add(p1).Add(p2)
}

type quadSegment struct {
	p0, p1, p2 Point
	t          func(float64) float64
	length     float64
}

func newQuadSegment(p0, p1, p2 Point) *quadSegment {
	q := &quadSegment{p0: p0, p1: p1, p2: p2}
	speed := func(t float64) float64 {
		return quadraticBezierDeriv(p0, p1, p2, t).Length()
	}
	q.t, q.length = invSpeedPolynomialChebyshevApprox(chebyshevN, gaussLegendre7x4, speed, 0.0, 1.0)
	return q
}

func (q *quadSegment) Length() float64 {
	return q.length
}

func (q *quadSegment) PointAt(s float64) Point {
	return quadraticBezierPos(q.p0, q.p1, q.p2, q.t(s))
}

func (q *quadSegment) Bounds(b orb.Bound) orb.Bound {
	b = b.Extend(q.p0.orb()).Extend(q.p2.orb())
	// the derivative is linear, its root per axis is the extremum
	div := q.p0.Sub(q.p1.Mul(2.0)).Add(q.p2)
	if div.X != 0.0 {
		if t := (q.p0.X - q.p1.X) / div.X; 0.0 < t && t < 1.0 {
			b = b.Extend(quadraticBezierPos(q.p0, q.p1, q.p2, t).orb())
		}
	}
	if div.Y != 0.0 {
		if t := (q.p0.Y - q.p1.Y) / div.Y; 0.0 < t && t < 1.0 {
			b = b.Extend(quadraticBezierPos(q.p0, q.p1, q.p2, t).orb())
		}
	}
	return b
}

////////////////////////////////////////////////////////////////

func cubicBezierPos(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul((1.0 - t) * (1.0 - t) * (1.0 - t))
	p1 = p1.Mul(3.0 * t * (1.0 - t) * (1.0 - t))
	p2 = p2.Mul(3.0 * t * t * (1.0 - t))
	p3 = p3.Mul(t * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(-3.0 + 6.0*t - 3.0*t*t)
	p1 = p1.Mul(3.0 - 12.0*t + 9.0*t*t)
	p2 = p2.Mul(6.0*t - 9.0*t*t)
	p3 = p3.Mul(3.0 * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

type cubeSegment struct {
	p0, p1, p2, p3 Point
	t              func(float64) float64
	length         float64
}

func newCubeSegment(p0, p1, p2, p3 Point) *cubeSegment {
	c := &cubeSegment{p0: p0, p1: p1, p2: p2, p3: p3}
	speed := func(t float64) float64 {
		return cubicBezierDeriv(p0, p1, p2, p3, t).Length()
	}
	c.t, c.length = invSpeedPolynomialChebyshevApprox(chebyshevN, gaussLegendre7x4, speed, 0.0, 1.0)
	return c
}

func (c *cubeSegment) Length() float64 {
	return c.length
}

func (c *cubeSegment) PointAt(s float64) Point {
	return cubicBezierPos(c.p0, c.p1, c.p2, c.p3, c.t(s))
}

func (c *cubeSegment) Bounds(b orb.Bound) orb.Bound {
	b = b.Extend(c.p0.orb()).Extend(c.p3.orb())

	// extrema are at the roots of the derivative a*t^2 + b*t + c per axis
	a := c.p0.Mul(-3.0).Add(c.p1.Mul(9.0)).Add(c.p2.Mul(-9.0)).Add(c.p3.Mul(3.0))
	bb := c.p0.Mul(6.0).Add(c.p1.Mul(-12.0)).Add(c.p2.Mul(6.0))
	cc := c.p1.Sub(c.p0).Mul(3.0)
	t1, t2 := solveQuadraticFormula(a.X, bb.X, cc.X)
	t3, t4 := solveQuadraticFormula(a.Y, bb.Y, cc.Y)
	for _, t := range []float64{t1, t2, t3, t4} {
		if 0.0 < t && t < 1.0 {
			b = b.Extend(cubicBezierPos(c.p0, c.p1, c.p2, c.p3, t).orb())
		}
	}
	return b
}

////////////////////////////////////////////////////////////////

// ellipseToCenter converts the SVG arc format to the center parameterisation, returning the
// center, the start and end angle in radians, and the radii scaled up if they were too small
// to span the end points.
// see https://www.w3.org/TR/SVG/implnote.html#ArcImplementationNotes
func ellipseToCenter(x1, y1, rx, ry, phi float64, large, sweep bool, x2, y2 float64) (float64, float64, float64, float64, float64, float64) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if x1 == x2 && y1 == y2 {
		return x1, y1, 0.0, 0.0, rx, ry
	}

	sinphi, cosphi := math.Sincos(phi)
	x1p := cosphi*(x1-x2)/2.0 + sinphi*(y1-y2)/2.0
	y1p := -sinphi*(x1-x2)/2.0 + cosphi*(y1-y2)/2.0

	// scale radii up when the end points cannot be reached
	lambda := x1p*x1p/rx/rx + y1p*y1p/ry/ry
	if lambda > 1.0 {
		rx *= math.Sqrt(lambda)
		ry *= math.Sqrt(lambda)
	}

	sq := (rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p) / (rx*rx*y1p*y1p + ry*ry*x1p*x1p)
	if sq < 0.0 {
		sq = 0.0
	}
	coef := math.Sqrt(sq)
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := coef * -ry * x1p / rx
	cx := cosphi*cxp - sinphi*cyp + (x1+x2)/2.0
	cy := sinphi*cxp + cosphi*cyp + (y1+y2)/2.0

	theta0 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta1 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta1 - theta0
	if sweep && delta < 0.0 {
		delta += 2.0 * math.Pi
	} else if !sweep && delta > 0.0 {
		delta -= 2.0 * math.Pi
	}
	return cx, cy, theta0, theta0 + delta, rx, ry
}

func ellipsePos(rx, ry, phi, cx, cy, theta float64) Point {
	sintheta, costheta := math.Sincos(theta)
	sinphi, cosphi := math.Sincos(phi)
	x := cx + rx*costheta*cosphi - ry*sintheta*sinphi
	y := cy + rx*costheta*sinphi + ry*sintheta*cosphi
	return Point{x, y}
}

type arcSegment struct {
	rx, ry, phi    float64
	cx, cy         float64
	theta0, theta1 float64
	t              func(float64) float64
	length         float64
}

// newArcSegment returns an elliptical arc, or a line when one of the radii is zero.
func newArcSegment(p0 Point, rx, ry, rot float64, large, sweep bool, p1 Point) segment {
	if equal(rx, 0.0) || equal(ry, 0.0) {
		return newLineSegment(p0, p1)
	}
	a := &arcSegment{phi: rot * math.Pi / 180.0}
	a.cx, a.cy, a.theta0, a.theta1, a.rx, a.ry = ellipseToCenter(p0.X, p0.Y, rx, ry, a.phi, large, sweep, p1.X, p1.Y)
	if a.theta0 == a.theta1 {
		return newLineSegment(p0, p1)
	}
	speed := func(theta float64) float64 {
		sintheta, costheta := math.Sincos(theta)
		return math.Hypot(a.rx*sintheta, a.ry*costheta)
	}
	a.t, a.length = invSpeedPolynomialChebyshevApprox(chebyshevN, gaussLegendre7x4, speed, a.theta0, a.theta1)
	return a
}

func (a *arcSegment) Length() float64 {
	return a.length
}

func (a *arcSegment) PointAt(s float64) Point {
	return ellipsePos(a.rx, a.ry, a.phi, a.cx, a.cy, a.t(s))
}

func (a *arcSegment) Bounds(b orb.Bound) orb.Bound {
	b = b.Extend(ellipsePos(a.rx, a.ry, a.phi, a.cx, a.cy, a.theta0).orb())
	b = b.Extend(ellipsePos(a.rx, a.ry, a.phi, a.cx, a.cy, a.theta1).orb())

	sinphi, cosphi := math.Sincos(a.phi)
	thetaX := math.Atan2(-a.ry*sinphi, a.rx*cosphi)
	thetaY := math.Atan2(a.ry*cosphi, a.rx*sinphi)
	for _, theta := range []float64{thetaX, thetaX + math.Pi, thetaY, thetaY + math.Pi} {
		if angleBetween(theta, a.theta0, a.theta1) {
			b = b.Extend(ellipsePos(a.rx, a.ry, a.phi, a.cx, a.cy, theta).orb())
		}
	}
	return b
}
