package sink

import (
	"github.com/benoitkugler/svgflatten/geom"
)

var _ RegionSink = (*Flattener)(nil) // assert interface conformance

// Flattener composes the polygons it receives, in paint order,
// into a set of non overlapping dark polygons, which are sent to
// the wrapped sink on Footer: dark geometry is added, clear geometry
// is removed from what was drawn before.
type Flattener struct {
	out Sink

	acc      geom.Region
	batch    []geom.Region // pending geometry with the current polarity
	polarity Polarity
}

// NewFlattener wraps `out`.
func NewFlattener(out Sink) *Flattener {
	return &Flattener{out: out}
}

func (f *Flattener) Header(origin, size geom.Point) error {
	return f.out.Header(origin, size)
}

// flush merges the pending batch into the accumulated geometry.
func (f *Flattener) flush() {
	if len(f.batch) == 0 {
		return
	}
	u := geom.UnionAll(f.batch)
	f.batch = nil
	if f.polarity == Dark {
		f.acc = geom.Union(f.acc, u)
	} else {
		f.acc = geom.Difference(f.acc, u)
	}
}

func (f *Flattener) SetPolarity(p Polarity) error {
	if p != f.polarity {
		f.flush()
		f.polarity = p
	}
	return nil
}

func (f *Flattener) Polygon(c geom.Contour) error {
	if len(c) >= 3 {
		f.batch = append(f.batch, geom.Region{c})
	}
	return nil
}

// Region adds a region with holes.
func (f *Flattener) Region(r geom.Region) error {
	if len(r) != 0 {
		f.batch = append(f.batch, r)
	}
	return nil
}

func (f *Flattener) Footer() error {
	f.flush()
	if err := f.out.SetPolarity(Dark); err != nil {
		return err
	}
	for _, c := range f.acc.Simple() {
		if err := f.out.Polygon(c); err != nil {
			return err
		}
	}
	f.acc = nil
	return f.out.Footer()
}
