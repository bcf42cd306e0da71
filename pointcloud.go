package pointcloud

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"time"
)

// PointCloud is the set of blue noise samples that fell inside a silhouette.
type PointCloud struct {
	Points []Point // samples in raster pixel space
	Raw    int     // number of samples before filtering by the mask
	Mask   *Mask
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// Coords returns the points as flattened (x,y,z) triples, with x and y scaled to [-1,1] around
// the center of the mask, y pointing up, and z zero.
func (pc *PointCloud) Coords() []float64 {
	half := float64(pc.Mask.Size()) / 2.0
	coords := make([]float64, 0, 3*len(pc.Points))
	for _, p := range pc.Points {
		coords = append(coords, (p.X-half)/half, (-p.Y+half)/half, 0.0)
	}
	return coords
}

// Sample fills the domain of the mask with blue noise and keeps the points inside the mask.
func Sample(m *Mask, cfg Config, rng *rand.Rand) *PointCloud {
	size := float64(m.Size())
	raw := NewPoissonDisk(size, size, cfg.Radius, cfg.MaxTries, rng).Fill()

	points := make([]Point, 0, len(raw)/4)
	for _, p := range raw {
		if m.Inside(p.X, p.Y) {
			points = append(points, p)
		}
	}
	return &PointCloud{
		Points: points,
		Raw:    len(raw),
		Mask:   m,
	}
}

// Process turns the first path of an SVG document into a point cloud.
func Process(svg []byte, cfg Config) (*PointCloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return process(svg, cfg, cfg.source(0))
}

func process(svg []byte, cfg Config, rng *rand.Rand) (*PointCloud, error) {
	start := time.Now()
	d, n, err := ExtractPathData(svg)
	if err != nil {
		return nil, err
	} else if 1 < n {
		Logger().Warn("only the first path is used", "paths", n)
	}

	p, err := ParseSVGPath(d)
	if err != nil {
		return nil, err
	}
	curve := NewCurve(p)
	w, h := curve.Size()

	mask, err := Rasterize(curve, cfg.Size, cfg.Step)
	if err != nil {
		return nil, err
	}
	Logger().Debug("rasterized", "commands", p.Len(), "length", curve.Length(), "width", w, "height", h, "opaque", mask.Opaque())

	pc := Sample(mask, cfg, rng)
	Logger().Debug("sampled", "raw", pc.Raw, "points", pc.Len(), "duration", time.Since(start))
	return pc, nil
}

// WriteJSON writes coords as a single JSON array of numbers.
func WriteJSON(w io.Writer, coords []float64) error {
	if coords == nil {
		coords = []float64{}
	}
	b, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
