package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/benoitkugler/svgflatten/geom"
	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/svgicon"
	"github.com/benoitkugler/svgflatten/vectorize"
)

type polygon struct {
	polarity sink.Polarity
	contour  geom.Contour
}

// recorder is a Sink storing the polygons it receives
type recorder struct {
	origin, size geom.Point
	current      sink.Polarity
	polygons     []polygon
	footer       bool
}

func (r *recorder) Header(origin, size geom.Point) error {
	r.origin, r.size = origin, size
	return nil
}

func (r *recorder) SetPolarity(p sink.Polarity) error { r.current = p; return nil }

func (r *recorder) Polygon(c geom.Contour) error {
	r.polygons = append(r.polygons, polygon{r.current, c})
	return nil
}

func (r *recorder) Footer() error { r.footer = true; return nil }

func (r *recorder) area(p sink.Polarity) float64 {
	var a float64
	for _, poly := range r.polygons {
		if poly.polarity == p {
			a += math.Abs(poly.contour.Area())
		}
	}
	return a
}

func parse(t *testing.T, src string) *svgicon.Document {
	t.Helper()
	doc, err := svgicon.ReadDocumentStream(strings.NewReader(src), svgicon.StrictErrorMode, zaptest.NewLogger(t))
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, src string, sel Selector) *recorder {
	t.Helper()
	rec := &recorder{}
	settings := Settings{MinFeatureSize: 0.1, Vectorizers: VectorizerSelector{Default: "binary-contours"}, Logger: zaptest.NewLogger(t)}
	require.NoError(t, Render(parse(t, src), settings, rec, sel))
	return rec
}

const header = `<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="10mm" viewBox="0 0 100 100">`

func TestFrame(t *testing.T) {
	for _, test := range []struct {
		src       string
		w, h      float64
		origin    geom.Point // mm position of the user space origin
		unitScale float64    // mm per user unit along x
	}{
		{`<svg width="40mm" height="20mm" viewBox="0 0 40 20"></svg>`, 40, 20, geom.Point{}, 1},
		{`<svg width="1in" viewBox="10 10 100 50"></svg>`, 25.4, 12.7, geom.Point{X: -2.54, Y: -2.54}, 0.254},
		{`<svg width="96" height="96"></svg>`, 25.4, 25.4, geom.Point{}, 25.4 / 96},
		{`<svg width="100%" viewBox="0 0 96 48"></svg>`, 25.4, 12.7, geom.Point{}, 25.4 / 96},
	} {
		doc := parse(t, test.src)
		size, m := Frame(doc)
		assert.InDelta(t, test.w, size.X, 1e-9, test.src)
		assert.InDelta(t, test.h, size.Y, 1e-9, test.src)
		x, y := m.Transform(0, 0)
		assert.InDelta(t, test.origin.X, x, 1e-9, test.src)
		assert.InDelta(t, test.origin.Y, y, 1e-9, test.src)
		assert.InDelta(t, test.unitScale, svgicon.ScaleFactor(m), 1e-9, test.src)
	}
}

func TestRenderFills(t *testing.T) {
	rec := render(t, header+`
		<rect x="10" y="10" width="50" height="20"/>
		<rect x="20" y="15" width="10" height="10" fill="#fff"/>
		<rect x="0" y="0" width="5" height="5" fill="none"/>
		<rect x="0" y="0" width="5" height="5" fill="black" fill-opacity="0"/>
	</svg>`, nil)

	assert.Equal(t, geom.Point{X: 10, Y: 10}, rec.size)
	assert.True(t, rec.footer)
	require.Len(t, rec.polygons, 2)
	assert.Equal(t, sink.Dark, rec.polygons[0].polarity)
	assert.InDelta(t, 10, rec.area(sink.Dark), 1e-6)
	assert.Equal(t, sink.Clear, rec.polygons[1].polarity)
	assert.InDelta(t, 1, rec.area(sink.Clear), 1e-6)

	b := rec.polygons[0].contour.Bounds()
	assert.InDelta(t, 1, b.Min.X, 1e-6)
	assert.InDelta(t, 6, b.Max.X, 1e-6)
}

func TestRenderCurvesAndRules(t *testing.T) {
	rec := render(t, header+`<circle cx="50" cy="50" r="40"/></svg>`, nil)
	assert.InDelta(t, math.Pi*16, rec.area(sink.Dark), 0.01*math.Pi*16)

	// a square with a hole, under both fill rules
	const frame = `M10 10 H90 V90 H10 Z M30 30 H70 V70 H30 Z`
	rec = render(t, header+`<path fill-rule="evenodd" d="`+frame+`"/></svg>`, nil)
	assert.InDelta(t, 64-16, rec.area(sink.Dark), 1e-6)
	require.Len(t, rec.polygons, 1, "the hole is bridged into a single contour")
	assert.InDelta(t, 48, rec.polygons[0].contour.Area(), 1e-6)

	rec = render(t, header+`<path d="`+frame+`"/></svg>`, nil)
	assert.InDelta(t, 64, rec.area(sink.Dark), 1e-6)
}

func TestRenderStrokes(t *testing.T) {
	rec := render(t, header+`<line x1="0" y1="50" x2="100" y2="50" stroke="black" stroke-width="10"/></svg>`, nil)
	assert.InDelta(t, 10, rec.area(sink.Dark), 1e-6)

	rec = render(t, header+`<path d="M0 50 H100" stroke="black" stroke-width="10" stroke-dasharray="20 30"/></svg>`, nil)
	assert.InDelta(t, 4, rec.area(sink.Dark), 1e-6)

	// fill then stroke, with their own polarity
	rec = render(t, header+`<rect x="20" y="20" width="60" height="60" fill="white" stroke="black" stroke-width="10"/></svg>`, nil)
	require.Len(t, rec.polygons, 2)
	assert.Equal(t, sink.Clear, rec.polygons[0].polarity)
	assert.Equal(t, sink.Dark, rec.polygons[1].polarity)
	assert.InDelta(t, 7*7-5*5, rec.area(sink.Dark), 1e-6)
}

func TestRenderTransforms(t *testing.T) {
	rec := render(t, header+`<g transform="translate(50 0) scale(2)"><rect width="10" height="10" stroke="black" stroke-width="0"/></g></svg>`, nil)
	require.Len(t, rec.polygons, 1)
	b := rec.polygons[0].contour.Bounds()
	assert.InDelta(t, 5, b.Min.X, 1e-6)
	assert.InDelta(t, 7, b.Max.X, 1e-6)
	assert.InDelta(t, 2, b.Max.Y, 1e-6)
}

func TestRenderSelection(t *testing.T) {
	const src = header + `
		<g id="top"><rect id="a" width="10" height="10"/><rect id="b" x="20" width="10" height="10"/></g>
		<rect id="c" x="40" width="10" height="10"/>
	</svg>`
	count := func(sel Selector) int { return len(render(t, src, sel).polygons) }

	assert.Equal(t, 3, count(nil))
	assert.Equal(t, 2, count(NewIDSelector([]string{"top"}, nil)))
	assert.Equal(t, 1, count(NewIDSelector([]string{"top"}, []string{"a"})))
	assert.Equal(t, 1, count(NewIDSelector(nil, []string{"top"})))
	assert.Equal(t, 0, count(NewIDSelector([]string{"a"}, []string{"a"})))
}

func pngDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.SetGray(x, y, color.Gray{})
			img.SetGray(x+2, y, color.Gray{Y: 255})
		}
	}
	uri := pngDataURI(t, img)
	src := fmt.Sprintf(header+`<image id="logo" x="0" y="0" width="80" height="40" preserveAspectRatio="none" href="%s"/></svg>`, uri)

	rec := render(t, src, nil)
	// the left half of a 8mm x 4mm image
	assert.InDelta(t, 16, rec.area(sink.Dark), 1e-6)
	assert.Zero(t, rec.area(sink.Clear))

	// dev-null for this image
	settings := Settings{MinFeatureSize: 0.1, Vectorizers: VectorizerSelector{
		Default:   "binary-contours",
		Overrides: map[string]string{"logo": "dev-null"},
	}}
	rec = &recorder{}
	require.NoError(t, Render(parse(t, src), settings, rec, nil))
	assert.Empty(t, rec.polygons)

	settings.Vectorizers.Overrides["logo"] = "potrace"
	err := Render(parse(t, src), settings, &recorder{}, nil)
	assert.True(t, errors.Is(err, vectorize.ErrUnknown))
}

// regionRecorder accepts regions with holes
type regionRecorder struct {
	recorder
	regions []geom.Region
}

func (r *regionRecorder) Region(reg geom.Region) error {
	r.regions = append(r.regions, reg)
	return nil
}

func TestRenderRegionSink(t *testing.T) {
	rec := &regionRecorder{}
	doc := parse(t, header+`<path fill-rule="evenodd" d="M10 10 H90 V90 H10 Z M30 30 H70 V70 H30 Z"/></svg>`)
	require.NoError(t, Render(doc, Settings{}, rec, nil))
	require.Len(t, rec.regions, 1)
	assert.Len(t, rec.regions[0], 2)
	assert.Empty(t, rec.polygons)
}

func TestRenderSinkError(t *testing.T) {
	k, err := sink.NewKicad(&bytes.Buffer{}, sink.Options{})
	require.NoError(t, err)
	err = Render(parse(t, header+`<rect width="10" height="10" fill="white"/></svg>`), Settings{}, k, nil)
	assert.True(t, errors.Is(err, sink.ErrClearPolarity))
}
