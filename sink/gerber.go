package sink

import (
	"fmt"
	"io"
	"math"

	"github.com/benoitkugler/svgflatten/geom"
)

// integer digits of the coordinates format
const gerberIntegerDigits = 4

// Gerber writes RS-274X regions in millimeters.
// The y axis is flipped, since Gerber coordinates point up.
type Gerber struct {
	out      output
	opts     Options
	scale    float64
	flipY    float64
	polarity Polarity
}

// NewGerber returns a Gerber writer. The precision must be in 1..9.
func NewGerber(w io.Writer, opts Options) (*Gerber, error) {
	if opts.Precision < 1 || opts.Precision > 9 {
		return nil, fmt.Errorf("%w: gerber supports 1 to 9 decimals, got %d", ErrPrecision, opts.Precision)
	}
	return &Gerber{out: newOutput(w), opts: opts, scale: math.Pow10(opts.Precision)}, nil
}

func (g *Gerber) coord(v float64) int64 { return int64(math.Round(v * g.scale)) }

func (g *Gerber) Header(origin, size geom.Point) error {
	g.flipY = origin.Y + size.Y
	if g.opts.OnlyPolygons {
		return nil
	}
	g.out.printf("G04 Generated by svg-flatten*\n")
	g.out.printf("%%FSLAX%d%dY%d%d*%%\n", gerberIntegerDigits, g.opts.Precision, gerberIntegerDigits, g.opts.Precision)
	g.out.printf("%%MOMM*%%\n")
	g.out.printf("%%LPD*%%\n")
	g.out.printf("G01*\n")
	return g.out.err
}

func (g *Gerber) SetPolarity(p Polarity) error {
	if p == g.polarity {
		return nil
	}
	g.polarity = p
	if p == Dark {
		g.out.printf("%%LPD*%%\n")
	} else {
		g.out.printf("%%LPC*%%\n")
	}
	return g.out.err
}

func (g *Gerber) point(p geom.Point, op string) {
	g.out.printf("X%dY%d%s*\n", g.coord(p.X), g.coord(g.flipY-p.Y), op)
}

func (g *Gerber) Polygon(c geom.Contour) error {
	if len(c) < 3 {
		return nil
	}
	g.out.printf("G36*\n")
	g.point(c[0], "D02")
	for _, p := range c[1:] {
		g.point(p, "D01")
	}
	g.point(c[0], "D01")
	g.out.printf("G37*\n")
	return g.out.err
}

func (g *Gerber) Footer() error {
	if !g.opts.OnlyPolygons {
		g.out.printf("M02*\n")
	}
	return g.out.flush()
}
