package pointcloud

import "math/rand/v2"

func RandomPath(n int, closed bool) *Path {
	p := &Path{}
	if 0 < n {
		p.MoveTo(rand.NormFloat64(), rand.NormFloat64())
		for i := 1; i < n; i++ {
			switch rand.IntN(4) {
			case 0:
				p.LineTo(rand.NormFloat64(), rand.NormFloat64())
			case 1:
				p.QuadTo(rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64())
			case 2:
				p.CubeTo(rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64())
			case 3:
				large, sweep := rand.IntN(2) == 0, rand.IntN(2) == 0
				p.ArcTo(rand.NormFloat64(), rand.NormFloat64(), 360.0*rand.Float64(), large, sweep, rand.NormFloat64(), rand.NormFloat64())
			}
		}
		if closed {
			p.Close()
		}
	}
	return p
}

func squareSVG(x, y, w float64) []byte {
	return []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d="` + squarePath(x, y, w) + `"/></svg>`)
}

func squarePath(x, y, w float64) string {
	return (&Path{}).rect(x, y, w).String()
}

func (p *Path) rect(x, y, w float64) *Path {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+w)
	p.LineTo(x, y+w)
	p.Close()
	return p
}
