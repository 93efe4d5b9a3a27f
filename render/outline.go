package render

import (
	"image"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgflatten/geom"
	"github.com/benoitkugler/svgflatten/svgicon"
)

// unitsPerMM is the resolution of the driver space: paths are
// sent to the drivers in 26.6 fixed point, in tenths of millimeter.
const unitsPerMM = 10

func fromFixed(p fixed.Point26_6) geom.Point {
	return geom.Point{X: float64(p.X) / (64 * unitsPerMM), Y: float64(p.Y) / (64 * unitsPerMM)}
}

// driverLength converts a length in driver space (scaled by 64) to mm.
func driverLength(l float64) float64 { return l / (64 * unitsPerMM) }

var (
	_ svgicon.Driver  = (*outliner)(nil) // assert interface conformance
	_ rasterx.Scanner = (*collector)(nil)
)

// collector is a rasterx.Scanner which, instead of scan converting the
// lines it receives, stores them as contours.
type collector struct {
	contours []geom.Contour
	current  geom.Contour
	extent   fixed.Rectangle26_6
	nonZero  bool
}

func (c *collector) flush() {
	if len(c.current) >= 3 {
		c.contours = append(c.contours, c.current)
	}
	c.current = nil
}

func (c *collector) grow(a fixed.Point26_6) {
	if len(c.contours) == 0 && len(c.current) == 0 {
		c.extent = fixed.Rectangle26_6{Min: a, Max: a}
		return
	}
	c.extent = c.extent.Union(fixed.Rectangle26_6{Min: a, Max: a})
}

func (c *collector) Start(a fixed.Point26_6) {
	c.flush()
	c.grow(a)
	c.current = geom.Contour{fromFixed(a)}
}

func (c *collector) Line(b fixed.Point26_6) {
	c.grow(b)
	c.current = append(c.current, fromFixed(b))
}

func (c *collector) Draw() { c.flush() }

func (c *collector) GetPathExtent() fixed.Rectangle26_6 { return c.extent }

func (c *collector) SetBounds(w, h int) {}

func (c *collector) SetColor(color interface{}) {}

func (c *collector) SetWinding(useNonZeroWinding bool) { c.nonZero = useNonZeroWinding }

func (c *collector) Clear() {
	c.contours, c.current = nil, nil
	c.extent = fixed.Rectangle26_6{}
}

func (c *collector) SetClip(rect image.Rectangle) {}

// region returns the collected area, resolving the fill rule.
func (c *collector) region() geom.Region {
	c.flush()
	rule := geom.EvenOdd
	if c.nonZero {
		rule = geom.NonZero
	}
	return geom.Normalize(c.contours, rule)
}

// paintFunc receives the area covered by a fill or a stroke,
// with its paint.
type paintFunc func(area geom.Region, paint svgicon.Pattern, opacity float64)

// filler flattens the curves through a rasterx.Filler,
// which sends the resulting lines to a collector.
type filler struct {
	*rasterx.Filler
	scan    *collector
	paint   svgicon.Pattern
	opacity float64
	emit    paintFunc
}

func newFiller(emit paintFunc) *filler {
	scan := &collector{}
	return &filler{Filler: rasterx.NewFiller(0, 0, scan), scan: scan, emit: emit}
}

// Stop closes the current contour: fills are always closed.
func (f *filler) Stop(bool) { f.Filler.Stop(true) }

func (f *filler) SetColor(paint svgicon.Pattern, opacity float64) {
	f.paint, f.opacity = paint, opacity
}

func (f *filler) Draw() {
	f.emit(f.scan.region(), f.paint, f.opacity)
	f.Filler.Clear()
}

// stroker records the flattened sub paths, and outlines
// them on Draw.
type stroker struct {
	lines   []geom.Polyline
	current []geom.Point
	start   fixed.Point26_6 // of the current sub path
	pen     fixed.Point26_6
	opts    svgicon.StrokeOptions

	tolerance float64
	paint     svgicon.Pattern
	opacity   float64
	emit      paintFunc
}

func (s *stroker) flush(closed bool) {
	if len(s.current) > 0 {
		s.lines = append(s.lines, geom.Polyline{Points: s.current, Closed: closed})
	}
	s.current = nil
}

func (s *stroker) Clear() {
	s.lines, s.current = nil, nil
	s.start, s.pen = fixed.Point26_6{}, fixed.Point26_6{}
}

func (s *stroker) Start(a fixed.Point26_6) {
	s.flush(false)
	s.start, s.pen = a, a
	s.current = []geom.Point{fromFixed(a)}
}

// lineF adds a point, starting a sub path after a close
func (s *stroker) lineF(x, y float32) {
	if s.current == nil {
		s.current = []geom.Point{fromFixed(s.start)}
	}
	s.current = append(s.current, fromFixed(fixed.Point26_6{X: fixed.Int26_6(x), Y: fixed.Int26_6(y)}))
}

func (s *stroker) Line(b fixed.Point26_6) {
	s.lineF(float32(b.X), float32(b.Y))
	s.pen = b
}

func (s *stroker) QuadBezier(b, c fixed.Point26_6) {
	rasterx.QuadTo(float32(s.pen.X), float32(s.pen.Y), float32(b.X), float32(b.Y), float32(c.X), float32(c.Y), s.lineF)
	s.pen = c
}

func (s *stroker) CubeBezier(b, c, d fixed.Point26_6) {
	rasterx.CubeTo(float32(s.pen.X), float32(s.pen.Y), float32(b.X), float32(b.Y),
		float32(c.X), float32(c.Y), float32(d.X), float32(d.Y), s.lineF)
	s.pen = d
}

func (s *stroker) Stop(closeLoop bool) {
	s.flush(closeLoop)
	if closeLoop {
		s.pen = s.start
	}
}

func (s *stroker) SetStrokeOptions(options svgicon.StrokeOptions) { s.opts = options }

func (s *stroker) SetColor(paint svgicon.Pattern, opacity float64) {
	s.paint, s.opacity = paint, opacity
}

func (s *stroker) style() geom.StrokeStyle {
	st := geom.StrokeStyle{
		Width:      driverLength(float64(s.opts.LineWidth)),
		MiterLimit: s.opts.Join.MiterLimit,
		Tolerance:  s.tolerance,
	}
	switch s.opts.Join.LineJoin {
	case svgicon.Round, svgicon.Arc, svgicon.ArcClip:
		st.Join = geom.JoinRound
	case svgicon.Bevel:
		st.Join = geom.JoinBevel
	default:
		st.Join = geom.JoinMiter
	}
	switch s.opts.Join.LineCap {
	case svgicon.RoundCap:
		st.Cap = geom.CapRound
	case svgicon.SquareCap:
		st.Cap = geom.CapSquare
	default:
		st.Cap = geom.CapButt
	}
	for _, d := range s.opts.Dash.Dash {
		st.Dash = append(st.Dash, driverLength(d))
	}
	st.DashOffset = driverLength(s.opts.Dash.DashOffset)
	return st
}

func (s *stroker) Draw() {
	s.flush(false)
	s.emit(geom.StrokeOutline(s.lines, s.style()), s.paint, s.opacity)
	s.Clear()
}

// outliner is a svgicon.Driver converting the painted
// areas of paths into regions.
type outliner struct {
	filler  *filler
	stroker *stroker
}

func newOutliner(emit paintFunc, tolerance float64) *outliner {
	return &outliner{
		filler:  newFiller(emit),
		stroker: &stroker{emit: emit, tolerance: tolerance},
	}
}

func (o *outliner) SetupDrawers(willFill, willStroke bool) (svgicon.Filler, svgicon.Stroker) {
	var (
		f svgicon.Filler
		s svgicon.Stroker
	)
	if willFill {
		f = o.filler
	}
	if willStroke {
		s = o.stroker
	}
	return f, s
}
