package pointcloud

import (
	"math"
	"math/rand/v2"
)

// PoissonDisk generates blue noise over [0,w)×[0,h) using Bridson's algorithm: no two points
// are closer than the radius, and every point has been given a number of tries to place a
// neighbour in the annulus [r,2r) before it is retired.
// see R. Bridson, Fast Poisson Disk Sampling in Arbitrary Dimensions, SIGGRAPH 2007 sketches
type PoissonDisk struct {
	w, h   float64
	r      float64
	tries  int
	rng    *rand.Rand
	cell   float64
	gw, gh int
	grid   []int32 // index into points or -1, at most one point per cell
	points []Point
	active []int32
}

// NewPoissonDisk returns a sampler; rng must not be shared between goroutines.
func NewPoissonDisk(w, h, radius float64, tries int, rng *rand.Rand) *PoissonDisk {
	cell := radius / math.Sqrt2
	gw, gh := 0, 0
	if 0.0 < radius && 0.0 < w && 0.0 < h {
		gw = int(math.Ceil(w / cell))
		gh = int(math.Ceil(h / cell))
	}
	grid := make([]int32, gw*gh)
	for i := range grid {
		grid[i] = -1
	}
	return &PoissonDisk{
		w:     w,
		h:     h,
		r:     radius,
		tries: tries,
		rng:   rng,
		cell:  cell,
		gw:    gw,
		gh:    gh,
		grid:  grid,
	}
}

func (pd *PoissonDisk) cellOf(p Point) (int, int) {
	return min(int(p.X/pd.cell), pd.gw-1), min(int(p.Y/pd.cell), pd.gh-1)
}

func (pd *PoissonDisk) add(p Point) {
	i := int32(len(pd.points))
	pd.points = append(pd.points, p)
	pd.active = append(pd.active, i)
	cx, cy := pd.cellOf(p)
	pd.grid[cy*pd.gw+cx] = i
}

// fits returns true if p lies in the domain and no point is closer than the radius. With a cell
// size of r/√2 any such point lies within two cells.
func (pd *PoissonDisk) fits(p Point) bool {
	if !(0.0 <= p.X && p.X < pd.w && 0.0 <= p.Y && p.Y < pd.h) {
		return false
	}
	cx, cy := pd.cellOf(p)
	r2 := pd.r * pd.r
	for y := max(cy-2, 0); y <= min(cy+2, pd.gh-1); y++ {
		for x := max(cx-2, 0); x <= min(cx+2, pd.gw-1); x++ {
			if i := pd.grid[y*pd.gw+x]; i != -1 {
				d := pd.points[i].Sub(p)
				if d.X*d.X+d.Y*d.Y < r2 {
					return false
				}
			}
		}
	}
	return true
}

// Fill samples the domain until no more points can be placed and returns all points.
func (pd *PoissonDisk) Fill() []Point {
	if pd.gw <= 0 || pd.gh <= 0 || !(0.0 < pd.r) {
		return nil
	}
	if len(pd.points) == 0 {
		pd.add(Point{pd.rng.Float64() * pd.w, pd.rng.Float64() * pd.h})
	}

	for 0 < len(pd.active) {
		k := pd.rng.IntN(len(pd.active))
		p := pd.points[pd.active[k]]

		placed := false
		for range pd.tries {
			theta := pd.rng.Float64() * 2.0 * math.Pi
			d := pd.r * (1.0 + pd.rng.Float64())
			sintheta, costheta := math.Sincos(theta)
			q := Point{p.X + d*costheta, p.Y + d*sintheta}
			if pd.fits(q) {
				pd.add(q)
				placed = true
				break
			}
		}
		if !placed {
			// retire by swapping with the last active point
			last := len(pd.active) - 1
			pd.active[k] = pd.active[last]
			pd.active = pd.active[:last]
		}
	}
	return pd.points
}
