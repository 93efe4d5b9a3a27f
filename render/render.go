// Package render converts a parsed document into polygons,
// sent to a sink: fills and strokes are outlined into regions
// whose polarity depends on their paint, and embedded images are
// handed to a vectorizer.
package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benoitkugler/svgflatten/geom"
	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/svgicon"
	"github.com/benoitkugler/svgflatten/vectorize"
)

// mmPerPx is the size of a CSS pixel
const mmPerPx = 25.4 / 96

// Settings configures the rendering.
type Settings struct {
	// MinFeatureSize is the smallest trace or space produced
	// by the vectorizers, in mm.
	MinFeatureSize float64
	Vectorizers    VectorizerSelector
	// Logger is optional.
	Logger *zap.Logger
}

// tolerance is the maximum deviation when approximating arcs
func (s Settings) tolerance() float64 {
	if s.MinFeatureSize > 0 {
		return s.MinFeatureSize / 10
	}
	return 0.01
}

// Frame returns the physical size of the document, in mm, and the
// matrix mapping user units to mm. Absolute width and height are
// honored; missing ones are deduced from the viewBox, in CSS pixels.
// Documents without viewBox use the extent of their content.
func Frame(doc *svgicon.Document) (geom.Point, svgicon.Matrix2D) {
	vb := doc.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		if b, ok := doc.ContentBounds(); ok {
			vb = b
		}
	}
	if vb.W <= 0 || vb.H <= 0 {
		return geom.Point{}, svgicon.Identity.Scale(mmPerPx, mmPerPx)
	}
	w, okW := doc.Width.Millimeters()
	h, okH := doc.Height.Millimeters()
	okW, okH = okW && w > 0, okH && h > 0
	switch {
	case okW && okH:
	case okW:
		h = w * vb.H / vb.W
	case okH:
		w = h * vb.W / vb.H
	default:
		w, h = vb.W*mmPerPx, vb.H*mmPerPx
	}
	return geom.Point{X: w, Y: h}, svgicon.Identity.Scale(w/vb.W, h/vb.H).Translate(-vb.X, -vb.Y)
}

type renderer struct {
	out      sink.Sink
	settings Settings
	logger   *zap.Logger
	err      error // first error, reported after the current element
}

// emit sends the region to the sink, bridging holes unless
// the sink handles them.
func (r *renderer) emit(area geom.Region, pol sink.Polarity) {
	if r.err != nil || len(area) == 0 {
		return
	}
	if r.err = r.out.SetPolarity(pol); r.err != nil {
		return
	}
	if rs, ok := r.out.(sink.RegionSink); ok {
		r.err = rs.Region(area)
		return
	}
	for _, c := range area.Simple() {
		if r.err = r.out.Polygon(c); r.err != nil {
			return
		}
	}
}

func (r *renderer) paint(area geom.Region, paint svgicon.Pattern, opacity float64) {
	pol, ok := paintPolarity(paint, opacity)
	if !ok {
		return
	}
	r.emit(area, pol)
}

func (r *renderer) image(img *svgicon.SvgImage, m svgicon.Matrix2D) error {
	if img.Opacity <= 0 || img.W <= 0 || img.H <= 0 {
		return nil
	}
	groups := img.Groups()
	name := r.settings.Vectorizers.Select(groups)
	vec, err := vectorize.New(name)
	if err != nil {
		return err
	}
	pixels, format, err := vectorize.Decode(img.Data)
	if err != nil {
		return err
	}
	b := pixels.Bounds()
	r.logger.Debug("vectorizing image",
		zap.Strings("groups", groups), zap.String("vectorizer", name),
		zap.String("format", format), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))

	area, err := vec.Vectorize(pixels, imagePlacement(img, b.Dx(), b.Dy(), m.Mult(img.Transform())), r.settings.MinFeatureSize)
	if err != nil {
		return fmt.Errorf("vectorizer %s: %w", name, err)
	}
	r.emit(area, sink.Dark)
	return r.err
}

// Render walks the drawable elements of `doc` in paint order and sends
// their geometry to `out`, between calls to Header and Footer.
// `sel` is optional and restricts the rendered elements.
func Render(doc *svgicon.Document, s Settings, out sink.Sink, sel Selector) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size, toMM := Frame(doc)
	r := &renderer{out: out, settings: s, logger: logger}
	if err := out.Header(geom.Point{}, size); err != nil {
		return err
	}
	logger.Debug("rendering document",
		zap.Int("elements", len(doc.Elements)), zap.Float64("width_mm", size.X), zap.Float64("height_mm", size.Y))

	driverSpace := svgicon.Identity.Scale(unitsPerMM, unitsPerMM).Mult(toMM)
	driver := newOutliner(r.paint, s.tolerance())
	for _, e := range doc.Elements {
		if sel != nil && !sel.Match(e.Groups()) {
			continue
		}
		switch e := e.(type) {
		case *svgicon.SvgPath:
			e.Draw(driver, 1, driverSpace)
		case *svgicon.SvgImage:
			if err := r.image(e, toMM); err != nil {
				return fmt.Errorf("image %v: %w", e.Groups(), err)
			}
		}
		if r.err != nil {
			return r.err
		}
	}
	return out.Footer()
}
