package sink

import (
	"fmt"
	"io"
	"strconv"

	"github.com/benoitkugler/svgflatten/geom"
)

// Kicad writes a KiCad footprint made of fp_poly items.
// It only supports dark polygons and is meant to be used
// behind a Flattener.
type Kicad struct {
	out  output
	opts Options
}

// NewKicad returns a KiCad S-expression writer.
func NewKicad(w io.Writer, opts Options) (*Kicad, error) {
	if opts.Precision < 0 {
		return nil, fmt.Errorf("%w: %d decimals", ErrPrecision, opts.Precision)
	}
	if opts.Layer == "" {
		opts.Layer = "F.SilkS"
	}
	if opts.ModuleName == "" {
		opts.ModuleName = "svg-flatten"
	}
	return &Kicad{out: newOutput(w), opts: opts}, nil
}

func (k *Kicad) num(v float64) string { return formatFloat(v, k.opts.Precision) }

func (k *Kicad) Header(origin, size geom.Point) error {
	if k.opts.OnlyPolygons {
		return nil
	}
	name := strconv.Quote(k.opts.ModuleName)
	k.out.printf("(module %s (layer F.Cu) (tedit 0)\n", name)
	k.out.printf("  (fp_text reference \"G***\" (at 0 0) (layer F.SilkS) hide\n")
	k.out.printf("    (effects (font (size 1.524 1.524) (thickness 0.3))))\n")
	k.out.printf("  (fp_text value %s (at 0 0) (layer F.SilkS) hide\n", name)
	k.out.printf("    (effects (font (size 1.524 1.524) (thickness 0.3))))\n")
	return k.out.err
}

func (k *Kicad) SetPolarity(p Polarity) error {
	if p != Dark {
		return ErrClearPolarity
	}
	return nil
}

func (k *Kicad) Polygon(c geom.Contour) error {
	if len(c) < 3 {
		return nil
	}
	k.out.printf("  (fp_poly (pts")
	for _, p := range c {
		k.out.printf(" (xy %s %s)", k.num(p.X), k.num(p.Y))
	}
	k.out.printf(") (layer %s) (width 0))\n", strconv.Quote(k.opts.Layer))
	return k.out.err
}

func (k *Kicad) Footer() error {
	if !k.opts.OnlyPolygons {
		k.out.printf(")\n")
	}
	return k.out.flush()
}
