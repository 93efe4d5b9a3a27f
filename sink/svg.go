package sink

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/svgflatten/geom"
)

// SVG writes each polygon as a filled <path>, using
// the dark or clear color depending on the polarity.
type SVG struct {
	out      output
	opts     Options
	polarity Polarity
}

// NewSVG returns an SVG writer. The precision must be non negative.
func NewSVG(w io.Writer, opts Options) (*SVG, error) {
	if opts.Precision < 0 {
		return nil, fmt.Errorf("%w: %d decimals", ErrPrecision, opts.Precision)
	}
	if opts.DarkColor == "" {
		opts.DarkColor = "#000000"
	}
	if opts.ClearColor == "" {
		opts.ClearColor = "#ffffff"
	}
	return &SVG{out: newOutput(w), opts: opts}, nil
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (s *SVG) num(v float64) string { return formatFloat(v, s.opts.Precision) }

func (s *SVG) Header(origin, size geom.Point) error {
	if s.opts.OnlyPolygons {
		return nil
	}
	s.out.printf(`<svg width="%smm" height="%smm" viewBox="%s %s %s %s" xmlns="http://www.w3.org/2000/svg">`+"\n",
		s.num(size.X), s.num(size.Y), s.num(origin.X), s.num(origin.Y), s.num(size.X), s.num(size.Y))
	return s.out.err
}

func (s *SVG) SetPolarity(p Polarity) error {
	s.polarity = p
	return nil
}

func (s *SVG) Polygon(c geom.Contour) error {
	if len(c) < 3 {
		return nil
	}
	color := s.opts.DarkColor
	if s.polarity == Clear {
		color = s.opts.ClearColor
	}
	var d strings.Builder
	for i, p := range c {
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(s.num(p.X))
		d.WriteByte(' ')
		d.WriteString(s.num(p.Y))
	}
	d.WriteString(" Z")
	s.out.printf(`<path fill="%s" d="%s"/>`+"\n", escapeAttr(color), d.String())
	return s.out.err
}

func (s *SVG) Footer() error {
	if !s.opts.OnlyPolygons {
		s.out.printf("</svg>\n")
	}
	return s.out.flush()
}
