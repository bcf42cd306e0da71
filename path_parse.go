package pointcloud

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
)

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t' || path[i] == '\f') {
		i++
	}
	return i
}

type pathParser struct {
	path []byte
	i    int
	err  error
}

func (z *pathParser) errorf(format string, a ...interface{}) {
	if z.err == nil {
		z.err = parse.NewError(bytes.NewReader(z.path), z.i, format, a...)
	}
}

func (z *pathParser) num() float64 {
	if z.err != nil {
		return 0.0
	}
	z.i += skipCommaWhitespace(z.path[z.i:])
	f, n := strconv.ParseFloat(z.path[z.i:])
	if n == 0 {
		z.errorf("bad path: expected number")
		return 0.0
	}
	z.i += n
	return f
}

// flag parses an arc flag, which may be written without a separator to the next value
func (z *pathParser) flag() bool {
	if z.err != nil {
		return false
	}
	z.i += skipCommaWhitespace(z.path[z.i:])
	if z.i < len(z.path) && (z.path[z.i] == '0' || z.path[z.i] == '1') {
		z.i++
		return z.path[z.i-1] == '1'
	}
	z.errorf("bad path: expected arc flag")
	return false
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

// ParseSVGPath parses the SVG path data mini-language into a Path. Subsequent coordinate
// pairs after a MoveTo are treated as implicit LineTos. It returns an error wrapping ErrParse
// with the position of the offending character.
func ParseSVGPath(sPath string) (*Path, error) {
	z := &pathParser{path: []byte(sPath)}
	p := &Path{}

	var prevCmd byte
	cpx, cpy := 0.0, 0.0 // control points

	for z.err == nil {
		z.i += skipCommaWhitespace(z.path[z.i:])
		if len(z.path) <= z.i {
			break
		}

		cmd := prevCmd
		if c := z.path[z.i]; isPathCommand(c) {
			cmd = c
			z.i++
		} else if 'A' <= c && c <= 'z' && c != 'e' && c != 'E' {
			z.errorf("bad path: unknown command '%c'", c)
			break
		} else if prevCmd == 0 || prevCmd == 'Z' || prevCmd == 'z' {
			z.errorf("bad path: expected command")
			break
		}

		x, y := p.Pos()
		switch cmd {
		case 'M', 'm':
			a := z.num()
			b := z.num()
			if cmd == 'm' {
				a += x
				b += y
			}
			p.MoveTo(a, b)
		case 'Z', 'z':
			p.Close()
		case 'L', 'l':
			a := z.num()
			b := z.num()
			if cmd == 'l' {
				a += x
				b += y
			}
			p.LineTo(a, b)
		case 'H', 'h':
			a := z.num()
			if cmd == 'h' {
				a += x
			}
			p.LineTo(a, y)
		case 'V', 'v':
			b := z.num()
			if cmd == 'v' {
				b += y
			}
			p.LineTo(x, b)
		case 'C', 'c':
			a := z.num()
			b := z.num()
			c := z.num()
			d := z.num()
			e := z.num()
			f := z.num()
			if cmd == 'c' {
				a += x
				b += y
				c += x
				d += y
				e += x
				f += y
			}
			p.CubeTo(a, b, c, d, e, f)
			cpx, cpy = c, d
		case 'S', 's':
			c := z.num()
			d := z.num()
			e := z.num()
			f := z.num()
			if cmd == 's' {
				c += x
				d += y
				e += x
				f += y
			}
			a, b := x, y
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				a, b = 2*x-cpx, 2*y-cpy
			}
			p.CubeTo(a, b, c, d, e, f)
			cpx, cpy = c, d
		case 'Q', 'q':
			a := z.num()
			b := z.num()
			c := z.num()
			d := z.num()
			if cmd == 'q' {
				a += x
				b += y
				c += x
				d += y
			}
			p.QuadTo(a, b, c, d)
			cpx, cpy = a, b
		case 'T', 't':
			c := z.num()
			d := z.num()
			if cmd == 't' {
				c += x
				d += y
			}
			a, b := x, y
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				a, b = 2*x-cpx, 2*y-cpy
			}
			p.QuadTo(a, b, c, d)
			cpx, cpy = a, b
		case 'A', 'a':
			rx := z.num()
			ry := z.num()
			rot := z.num()
			large := z.flag()
			sweep := z.flag()
			ex := z.num()
			ey := z.num()
			if cmd == 'a' {
				ex += x
				ey += y
			}
			p.ArcTo(rx, ry, rot, large, sweep, ex, ey)
		}

		// coordinates following a MoveTo are implicit LineTos
		if cmd == 'M' {
			cmd = 'L'
		} else if cmd == 'm' {
			cmd = 'l'
		}
		prevCmd = cmd
	}
	if z.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, z.err)
	}
	return p, nil
}

// MustParseSVGPath parses an SVG path and panics on error.
func MustParseSVGPath(s string) *Path {
	p, err := ParseSVGPath(s)
	if err != nil {
		panic(err)
	}
	return p
}
