package pointcloud

// PathScanner iterates over the commands of a path.
type PathScanner struct {
	p    *Path
	i    int // command index
	j    int // offset of the command's values in p.d
	next int
}

// Scan advances to the next command and returns false when there are none left.
func (s *PathScanner) Scan() bool {
	if s.i+1 < len(s.p.cmds) {
		s.i++
		s.j = s.next
		s.next += cmdLen[s.p.cmds[s.i]]
		return true
	}
	return false
}

func (s *PathScanner) Cmd() PathCmd {
	return s.p.cmds[s.i]
}

func (s *PathScanner) Values() []float64 {
	return s.p.d[s.j:s.next]
}

// Start returns the pen position before the current command.
func (s *PathScanner) Start() Point {
	if s.j == 0 {
		return Point{}
	}
	return Point{s.p.d[s.j-2], s.p.d[s.j-1]}
}

// CP1 returns the first control point for quadratic and cubic Béziers.
func (s *PathScanner) CP1() Point {
	if cmd := s.p.cmds[s.i]; cmd != QuadToCmd && cmd != CubeToCmd {
		panic("must be quadratic or cubic Bézier")
	}
	return Point{s.p.d[s.j], s.p.d[s.j+1]}
}

// CP2 returns the second control point for cubic Béziers.
func (s *PathScanner) CP2() Point {
	if s.p.cmds[s.i] != CubeToCmd {
		panic("must be cubic Bézier")
	}
	return Point{s.p.d[s.j+2], s.p.d[s.j+3]}
}

// Arc returns the arguments for arcs (rx,ry,rot,large,sweep), with rot in degrees.
func (s *PathScanner) Arc() (float64, float64, float64, bool, bool) {
	if s.p.cmds[s.i] != ArcToCmd {
		panic("must be arc")
	}
	d := s.p.d[s.j:]
	return d[0], d[1], d[2], d[3] == 1.0, d[4] == 1.0
}

// End returns the pen position after the current command.
func (s *PathScanner) End() Point {
	return Point{s.p.d[s.next-2], s.p.d[s.next-1]}
}
