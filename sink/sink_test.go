package sink

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgflatten/geom"
)

// recorder is a Sink storing the calls it receives
type recorder struct {
	header, footer bool
	polarities     []Polarity
	polygons       []geom.Contour
}

func (r *recorder) Header(origin, size geom.Point) error { r.header = true; return nil }
func (r *recorder) SetPolarity(p Polarity) error {
	r.polarities = append(r.polarities, p)
	return nil
}

func (r *recorder) Polygon(c geom.Contour) error {
	r.polygons = append(r.polygons, c)
	return nil
}
func (r *recorder) Footer() error { r.footer = true; return nil }

func unitSquare() geom.Contour { return geom.Rectangle(0, 0, 1, 1) }

func TestParseFormat(t *testing.T) {
	for in, exp := range map[string]Format{
		"svg":    FormatSVG,
		"SVG":    FormatSVG,
		"gerber": FormatGerber,
		"GBR":    FormatGerber,
		"grb":    FormatGerber,
		"s-exp":  FormatSExp,
	} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, exp, f, in)
	}
	for _, in := range []string{"dxf", "sexp", ""} {
		_, err := ParseFormat(in)
		assert.True(t, errors.Is(err, ErrUnknownFormat), in)
	}
}

func TestGerber(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewGerber(&buf, Options{Precision: 3})
	require.NoError(t, err)

	require.NoError(t, g.Header(geom.Point{}, geom.Point{X: 10, Y: 10}))
	require.NoError(t, g.Polygon(unitSquare()))
	require.NoError(t, g.SetPolarity(Clear))
	require.NoError(t, g.SetPolarity(Clear))
	require.NoError(t, g.Polygon(geom.Contour{{X: 0, Y: 0}, {X: 1, Y: 0}}))
	require.NoError(t, g.Footer())

	assert.Equal(t, `G04 Generated by svg-flatten*
%FSLAX43Y43*%
%MOMM*%
%LPD*%
G01*
G36*
X0Y10000D02*
X1000Y10000D01*
X1000Y9000D01*
X0Y9000D01*
X0Y10000D01*
G37*
%LPC*%
M02*
`, buf.String())
}

func TestGerberPrecision(t *testing.T) {
	for _, p := range []int{0, 10, -1} {
		_, err := NewGerber(&bytes.Buffer{}, Options{Precision: p})
		assert.True(t, errors.Is(err, ErrPrecision), "precision %d", p)
	}
	_, err := New(FormatGerber, &bytes.Buffer{}, Options{Precision: 12}, true)
	assert.True(t, errors.Is(err, ErrPrecision))
}

func TestGerberOnlyPolygons(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewGerber(&buf, Options{Precision: 6, OnlyPolygons: true})
	require.NoError(t, err)
	require.NoError(t, g.Header(geom.Point{}, geom.Point{X: 1, Y: 1}))
	require.NoError(t, g.Polygon(unitSquare()))
	require.NoError(t, g.Footer())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "G36*\n"))
	assert.NotContains(t, out, "%FS")
	assert.NotContains(t, out, "M02")
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSVG(&buf, Options{Precision: 2, ClearColor: "a&b"})
	require.NoError(t, err)
	require.NoError(t, s.Header(geom.Point{}, geom.Point{X: 20, Y: 10.5}))
	require.NoError(t, s.Polygon(geom.Contour{{X: 0, Y: 0}, {X: 1.126, Y: 0}, {X: 1, Y: 1}}))
	require.NoError(t, s.SetPolarity(Clear))
	require.NoError(t, s.Polygon(unitSquare()))
	require.NoError(t, s.Footer())

	assert.Equal(t, `<svg width="20mm" height="10.5mm" viewBox="0 0 20 10.5" xmlns="http://www.w3.org/2000/svg">
<path fill="#000000" d="M 0 0 L 1.13 0 L 1 1 Z"/>
<path fill="a&amp;b" d="M 0 0 L 1 0 L 1 1 L 0 1 Z"/>
</svg>
`, buf.String())

	_, err = NewSVG(&buf, Options{Precision: -1})
	assert.True(t, errors.Is(err, ErrPrecision))
}

func TestKicad(t *testing.T) {
	var buf bytes.Buffer
	k, err := NewKicad(&buf, Options{Precision: 3, ModuleName: "logo"})
	require.NoError(t, err)
	require.NoError(t, k.Header(geom.Point{}, geom.Point{X: 1, Y: 1}))
	require.NoError(t, k.Polygon(unitSquare()))
	assert.True(t, errors.Is(k.SetPolarity(Clear), ErrClearPolarity))
	require.NoError(t, k.Footer())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `(module "logo" (layer F.Cu)`))
	assert.Contains(t, out, `(fp_poly (pts (xy 0 0) (xy 1 0) (xy 1 1) (xy 0 1)) (layer "F.SilkS") (width 0))`)
	assert.True(t, strings.HasSuffix(out, ")\n"))
}

func TestFlattenerComposes(t *testing.T) {
	rec := &recorder{}
	f := NewFlattener(rec)

	require.NoError(t, f.Header(geom.Point{}, geom.Point{X: 10, Y: 10}))
	require.NoError(t, f.Polygon(geom.Rectangle(0, 0, 4, 4)))
	require.NoError(t, f.Polygon(geom.Rectangle(2, 0, 6, 4)))
	require.NoError(t, f.SetPolarity(Clear))
	require.NoError(t, f.Polygon(geom.Rectangle(1, 1, 3, 3)))
	require.NoError(t, f.SetPolarity(Dark))
	require.NoError(t, f.Region(geom.Region{geom.Rectangle(8, 8, 9, 9)}))
	require.NoError(t, f.Footer())

	assert.True(t, rec.header)
	assert.True(t, rec.footer)
	assert.Equal(t, []Polarity{Dark}, rec.polarities)
	require.Len(t, rec.polygons, 2)

	var area float64
	for _, c := range rec.polygons {
		assert.Greater(t, c.Area(), 0.0)
		area += c.Area()
	}
	assert.InDelta(t, 6*4-2*2+1, area, 1e-9)
}

func TestFlattenerClearOnly(t *testing.T) {
	rec := &recorder{}
	f := NewFlattener(rec)
	require.NoError(t, f.Header(geom.Point{}, geom.Point{X: 1, Y: 1}))
	require.NoError(t, f.SetPolarity(Clear))
	require.NoError(t, f.Polygon(unitSquare()))
	require.NoError(t, f.Footer())
	assert.Empty(t, rec.polygons)
}

func TestNew(t *testing.T) {
	s, err := New(FormatGerber, &bytes.Buffer{}, Options{Precision: 6}, false)
	require.NoError(t, err)
	assert.IsType(t, &Gerber{}, s)

	s, err = New(FormatSVG, &bytes.Buffer{}, Options{Precision: 6}, true)
	require.NoError(t, err)
	assert.IsType(t, &Flattener{}, s)

	s, err = New(FormatSExp, &bytes.Buffer{}, Options{Precision: 6}, false)
	require.NoError(t, err)
	assert.IsType(t, &Flattener{}, s)
}

func TestKicadBehindFlattener(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(FormatSExp, &buf, Options{Precision: 2}, false)
	require.NoError(t, err)
	require.NoError(t, s.Header(geom.Point{}, geom.Point{X: 5, Y: 5}))
	require.NoError(t, s.Polygon(geom.Rectangle(0, 0, 2, 2)))
	require.NoError(t, s.SetPolarity(Clear))
	require.NoError(t, s.Polygon(geom.Rectangle(1, 0, 2, 2)))
	require.NoError(t, s.Footer())

	assert.Equal(t, 1, strings.Count(buf.String(), "fp_poly"))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", formatFloat(1.5, 3))
	assert.Equal(t, "2", formatFloat(2, 3))
	assert.Equal(t, "0", formatFloat(-0.0001, 2))
	assert.Equal(t, "12", formatFloat(12.4, 0))
}
