package svgicon

import (
	"fmt"
	"math"
	"strconv"
)

// pathCursor compiles SVG path data into a Path.
type pathCursor struct {
	path             Path
	points           []float64
	penX, penY       float64 // current point
	placeX, placeY   float64 // start of the current sub path
	cntlPtX, cntlPtY float64 // last control point, for smooth curves
	lastKey          byte
	inPath           bool
}

func (c *pathCursor) init() {
	c.penX, c.penY = 0, 0
	c.placeX, c.placeY = 0, 0
	c.points = c.points[:0]
	c.lastKey = ' '
	c.inPath = false
}

// number of arguments consumed by each command
var argCount = map[byte]int{
	'm': 2, 'l': 2, 'h': 1, 'v': 1, 'c': 6, 's': 4,
	'q': 4, 't': 2, 'a': 7, 'z': 0,
}

func isSeparator(b byte) bool {
	return b == ' ' || b == ',' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// scanNumber returns the end of the number starting at s[i],
// or i if there is none.
func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// getPoints reads a list of numbers, separated by white spaces
// and/or commas, into c.points
func (c *pathCursor) getPoints(dataPoints string) error {
	c.points = c.points[:0]
	for i := 0; i < len(dataPoints); {
		if isSeparator(dataPoints[i]) {
			i++
			continue
		}
		end := scanNumber(dataPoints, i)
		if end == i {
			return fmt.Errorf("invalid number list %q", dataPoints)
		}
		f, err := strconv.ParseFloat(dataPoints[i:end], 64)
		if err != nil {
			return err
		}
		c.points = append(c.points, f)
		i = end
	}
	return nil
}

// compilePath translates the svgPath description string into a path.
// The resulting path is stored in c.path.
func (c *pathCursor) compilePath(svgPath string) error {
	c.init()
	var (
		cmd  byte
		args []float64
	)
	for i := 0; i < len(svgPath); {
		ch := svgPath[i]
		switch {
		case isSeparator(ch):
			i++
		case ch != 'e' && ch != 'E' && ('a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'):
			if cmd != 0 {
				if err := c.addSeg(cmd, args); err != nil {
					return err
				}
			}
			cmd, args = ch, args[:0]
			i++
		default:
			if cmd == 0 {
				return fmt.Errorf("path data must start with a command: %q", svgPath)
			}
			// arc flags may be written without separator
			if lower(cmd) == 'a' && (len(args)%7 == 3 || len(args)%7 == 4) && (ch == '0' || ch == '1') {
				args = append(args, float64(ch-'0'))
				i++
				continue
			}
			end := scanNumber(svgPath, i)
			if end == i {
				return fmt.Errorf("invalid character %q in path data", ch)
			}
			f, err := strconv.ParseFloat(svgPath[i:end], 64)
			if err != nil {
				return err
			}
			args = append(args, f)
			i = end
		}
	}
	if cmd != 0 {
		return c.addSeg(cmd, args)
	}
	return nil
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// reflect gives the reflection of the last control point
// around the current point, if the previous command was of the same kind.
func (c *pathCursor) reflect(kinds string) (x, y float64) {
	last := lower(c.lastKey)
	if last == kinds[0] || last == kinds[1] {
		return 2*c.penX - c.cntlPtX, 2*c.penY - c.cntlPtY
	}
	return c.penX, c.penY
}

// addSeg applies the command `cmd` to each group of arguments.
func (c *pathCursor) addSeg(cmd byte, args []float64) error {
	key := lower(cmd)
	n, ok := argCount[key]
	if !ok {
		return fmt.Errorf("unknown path command %q", cmd)
	}
	if n == 0 {
		if len(args) != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.penX, c.penY = c.placeX, c.placeY
			c.inPath = false
		}
		c.lastKey = cmd
		return nil
	}
	if len(args) == 0 || len(args)%n != 0 {
		return fmt.Errorf("path command %q: %w", cmd, errParamMismatch)
	}
	rel := cmd == key
	for j := 0; j < len(args); j += n {
		p := args[j : j+n]
		var ox, oy float64
		if rel {
			ox, oy = c.penX, c.penY
		}
		if key != 'm' && !c.inPath {
			// implicit start, after a close or for malformed data
			c.path.Start(Point{c.penX, c.penY})
			c.placeX, c.placeY = c.penX, c.penY
			c.inPath = true
		}
		switch key {
		case 'm':
			if j == 0 {
				c.penX, c.penY = p[0]+ox, p[1]+oy
				c.path.Start(Point{c.penX, c.penY})
				c.placeX, c.placeY = c.penX, c.penY
				c.inPath = true
			} else { // subsequent pairs are implicit lineto
				c.penX, c.penY = p[0]+ox, p[1]+oy
				c.path.Line(Point{c.penX, c.penY})
			}
		case 'l':
			c.penX, c.penY = p[0]+ox, p[1]+oy
			c.path.Line(Point{c.penX, c.penY})
		case 'h':
			c.penX = p[0] + ox
			c.path.Line(Point{c.penX, c.penY})
		case 'v':
			c.penY = p[0] + oy
			c.path.Line(Point{c.penX, c.penY})
		case 'c':
			c.cntlPtX, c.cntlPtY = p[2]+ox, p[3]+oy
			c.penX, c.penY = p[4]+ox, p[5]+oy
			c.path.CubeBezier(Point{p[0] + ox, p[1] + oy}, Point{c.cntlPtX, c.cntlPtY}, Point{c.penX, c.penY})
		case 's':
			x1, y1 := c.reflect("cs")
			c.cntlPtX, c.cntlPtY = p[0]+ox, p[1]+oy
			c.penX, c.penY = p[2]+ox, p[3]+oy
			c.path.CubeBezier(Point{x1, y1}, Point{c.cntlPtX, c.cntlPtY}, Point{c.penX, c.penY})
		case 'q':
			c.cntlPtX, c.cntlPtY = p[0]+ox, p[1]+oy
			c.penX, c.penY = p[2]+ox, p[3]+oy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.penX, c.penY})
		case 't':
			c.cntlPtX, c.cntlPtY = c.reflect("qt")
			c.penX, c.penY = p[0]+ox, p[1]+oy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.penX, c.penY})
		case 'a':
			c.arcTo(p[0], p[1], p[2], p[3] != 0, p[4] != 0, p[5]+ox, p[6]+oy)
		}
		// the key drives the reflection of the next smooth curve
		c.lastKey = key
		if key == 'm' {
			c.lastKey = 'l'
		}
	}
	return nil
}

// arcTo adds an elliptical arc from the current point to (x, y).
func (c *pathCursor) arcTo(rx, ry, rot float64, largeArc, sweep bool, x, y float64) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if x == c.penX && y == c.penY {
		return // omitted, as per the SVG specification
	}
	if rx == 0 || ry == 0 {
		c.penX, c.penY = x, y
		c.path.Line(Point{x, y})
		return
	}
	cx, cy := findEllipseCenter(&rx, &ry, rot*math.Pi/180, c.penX, c.penY, x, y, sweep, !largeArc)
	flag := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	c.penX, c.penY = c.path.addArc([]float64{rx, ry, rot, flag(largeArc), flag(sweep), x, y}, cx, cy, c.penX, c.penY)
}
