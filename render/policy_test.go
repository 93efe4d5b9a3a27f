package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/svgicon"
)

func TestParseIDList(t *testing.T) {
	for _, in := range []string{"a,b,c", "a,b,c,", " a , b,c ", "a,,b,c", "a,b,a,c"} {
		if diff := cmp.Diff([]string{"a", "b", "c"}, ParseIDList(in)); diff != "" {
			t.Errorf("%q: (-want +got)\n%s", in, diff)
		}
	}
	assert.Empty(t, ParseIDList(""))
	assert.Empty(t, ParseIDList(" , ,"))
}

func TestParseVectorizerMap(t *testing.T) {
	m, err := ParseVectorizerMap("logo=hex-grid, photo = binary-contours,,logo=dev-null")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"logo": "dev-null", "photo": "binary-contours"}, m)

	m, err = ParseVectorizerMap("")
	require.NoError(t, err)
	assert.Empty(t, m)

	for _, bad := range []string{"logo", "=hex-grid", "logo=", "a=b,c"} {
		_, err := ParseVectorizerMap(bad)
		assert.Error(t, err, bad)
	}
}

func TestVectorizerSelector(t *testing.T) {
	sel := VectorizerSelector{
		Default:   "poisson-disc",
		Overrides: map[string]string{"layer": "hex-grid", "photo": "binary-contours"},
	}
	assert.Equal(t, "poisson-disc", sel.Select(nil))
	assert.Equal(t, "hex-grid", sel.Select([]string{"layer", "other"}))
	assert.Equal(t, "binary-contours", sel.Select([]string{"layer", "photo"}))
}

func TestIDSelector(t *testing.T) {
	sel := NewIDSelector([]string{"a", "b"}, []string{"b"})
	assert.True(t, sel.Match([]string{"a"}))
	assert.True(t, sel.Match([]string{"x", "a"}))
	assert.False(t, sel.Match([]string{"b"}))
	assert.False(t, sel.Match([]string{"a", "b"}))
	assert.False(t, sel.Match(nil))

	all := NewIDSelector(nil, nil)
	assert.True(t, all.Match(nil))
}

func TestPaintPolarity(t *testing.T) {
	for _, test := range []struct {
		paint   svgicon.Pattern
		opacity float64
		pol     sink.Polarity
		drawn   bool
	}{
		{svgicon.NewPlainColor(0, 0, 0, 255), 1, sink.Dark, true},
		{svgicon.NewPlainColor(255, 255, 255, 255), 1, sink.Clear, true},
		{svgicon.NewPlainColor(200, 0, 0, 255), 1, sink.Dark, true},
		{svgicon.NewPlainColor(200, 200, 100, 255), 1, sink.Clear, true},
		{svgicon.NewPlainColor(0, 0, 0, 0), 1, 0, false},
		{svgicon.NewPlainColor(0, 0, 0, 255), 0, 0, false},
		{nil, 1, 0, false},
	} {
		pol, drawn := paintPolarity(test.paint, test.opacity)
		assert.Equal(t, test.drawn, drawn, "%v", test.paint)
		if test.drawn {
			assert.Equal(t, test.pol, pol, "%v", test.paint)
		}
	}
}

func TestParseAspectRatio(t *testing.T) {
	assert.Equal(t, aspectRatio{ax: 0.5, ay: 0.5}, parseAspectRatio(""))
	assert.Equal(t, aspectRatio{none: true, ax: 0.5, ay: 0.5}, parseAspectRatio("none"))
	assert.Equal(t, aspectRatio{ax: 0, ay: 1, slice: true}, parseAspectRatio("xMinYMax slice"))
	assert.Equal(t, aspectRatio{ax: 1, ay: 0.5}, parseAspectRatio("defer xMaxYMid meet"))
	assert.Equal(t, aspectRatio{ax: 0.5, ay: 0.5}, parseAspectRatio("bogus"))
}

func TestImagePlacement(t *testing.T) {
	img := &svgicon.SvgImage{X: 0, Y: 0, W: 20, H: 10, PreserveAspectRatio: "xMidYMid meet"}
	// square image, centered horizontally
	p := imagePlacement(img, 10, 10, svgicon.Identity)
	x, y := p.Matrix.Transform(0, 0)
	assert.InDelta(t, 5, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	x, y = p.Matrix.Transform(10, 10)
	assert.InDelta(t, 15, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)

	img.PreserveAspectRatio = "xMinYMin slice"
	p = imagePlacement(img, 10, 10, svgicon.Identity)
	x, y = p.Matrix.Transform(10, 10)
	assert.InDelta(t, 20, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)
	assert.InDelta(t, 200, p.Clip.Area(), 1e-9)

	img.PreserveAspectRatio = "none"
	p = imagePlacement(img, 10, 10, svgicon.Identity.Scale(2, 2))
	x, y = p.Matrix.Transform(10, 10)
	assert.InDelta(t, 40, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)
}
