package pointcloud

import (
	"strconv"
	"strings"
)

// PathCmd is a drawing instruction of a path.
type PathCmd int

const (
	MoveToCmd PathCmd = iota
	LineToCmd
	QuadToCmd
	CubeToCmd
	ArcToCmd
	CloseCmd
)

func (cmd PathCmd) String() string {
	switch cmd {
	case MoveToCmd:
		return "M"
	case LineToCmd:
		return "L"
	case QuadToCmd:
		return "Q"
	case CubeToCmd:
		return "C"
	case ArcToCmd:
		return "A"
	case CloseCmd:
		return "z"
	}
	return "?"
}

// cmdLen is the number of coordinate values a command carries in Path.d. The last two values
// are always the end point, also for CloseCmd which stores the start of its subpath.
var cmdLen = [6]int{2, 2, 4, 6, 7, 2}

// Path is an ordered sequence of MoveTo, LineTo, QuadTo, CubeTo, ArcTo and Close commands
// with their coordinates in d. Arcs are stored as rx, ry, rot (degrees), large, sweep, x, y.
// A path always starts with a MoveTo.
type Path struct {
	cmds []PathCmd
	d    []float64
	x0   float64 // start of the current subpath
	y0   float64
}

// IsEmpty returns true if p has no commands.
func (p *Path) IsEmpty() bool {
	return len(p.cmds) == 0
}

// Len returns the number of commands.
func (p *Path) Len() int {
	return len(p.cmds)
}

// Cmds returns the command sequence.
func (p *Path) Cmds() []PathCmd {
	return p.cmds
}

// Pos returns the current pen position.
func (p *Path) Pos() (float64, float64) {
	if len(p.d) > 1 {
		return p.d[len(p.d)-2], p.d[len(p.d)-1]
	}
	return 0.0, 0.0
}

// StartPos returns the start position of the current subpath.
func (p *Path) StartPos() (float64, float64) {
	return p.x0, p.y0
}

func (p *Path) ensureStart() {
	if len(p.cmds) == 0 {
		p.MoveTo(0.0, 0.0)
	} else if p.cmds[len(p.cmds)-1] == CloseCmd {
		// drawing after a close continues from the subpath's start point
		p.MoveTo(p.x0, p.y0)
	}
}

////////////////////////////////////////////////////////////////

func (p *Path) MoveTo(x, y float64) {
	if 0 < len(p.cmds) && p.cmds[len(p.cmds)-1] == MoveToCmd {
		p.d[len(p.d)-2], p.d[len(p.d)-1] = x, y
	} else {
		p.cmds = append(p.cmds, MoveToCmd)
		p.d = append(p.d, x, y)
	}
	p.x0, p.y0 = x, y
}

func (p *Path) LineTo(x, y float64) {
	p.ensureStart()
	p.cmds = append(p.cmds, LineToCmd)
	p.d = append(p.d, x, y)
}

func (p *Path) QuadTo(x1, y1, x, y float64) {
	p.ensureStart()
	p.cmds = append(p.cmds, QuadToCmd)
	p.d = append(p.d, x1, y1, x, y)
}

func (p *Path) CubeTo(x1, y1, x2, y2, x, y float64) {
	p.ensureStart()
	p.cmds = append(p.cmds, CubeToCmd)
	p.d = append(p.d, x1, y1, x2, y2, x, y)
}

// ArcTo defines an elliptical arc with radii rx and ry, with rot the rotation in degrees with
// respect to the coordinate system, and the large and sweep flags as defined by SVG.
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	p.ensureStart()
	flarge := 0.0
	if large {
		flarge = 1.0
	}
	fsweep := 0.0
	if sweep {
		fsweep = 1.0
	}
	p.cmds = append(p.cmds, ArcToCmd)
	p.d = append(p.d, rx, ry, rot, flarge, fsweep, x, y)
}

// Close closes the current subpath with a line back to its start.
func (p *Path) Close() {
	if len(p.cmds) == 0 || p.cmds[len(p.cmds)-1] == CloseCmd {
		return
	}
	p.cmds = append(p.cmds, CloseCmd)
	p.d = append(p.d, p.x0, p.y0)
}

// Scanner returns an iterator over the path's commands.
func (p *Path) Scanner() *PathScanner {
	return &PathScanner{p, -1, 0, 0}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// String returns the path in the SVG path data format with absolute coordinates.
func (p *Path) String() string {
	sb := strings.Builder{}
	for s := p.Scanner(); s.Scan(); {
		cmd := s.Cmd()
		sb.WriteString(cmd.String())
		if cmd == CloseCmd {
			continue
		}
		for i, v := range s.Values() {
			if 0 < i {
				sb.WriteByte(' ')
			}
			sb.WriteString(num(v))
		}
	}
	return sb.String()
}
