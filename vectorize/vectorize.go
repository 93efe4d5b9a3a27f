// Package vectorize converts embedded raster images into dark polygons,
// with a choice of strategies trading fidelity for manufacturability.
//
// Every strategy works in output space (millimeters): samples are
// taken on a grid laid over the placed image, mapped back into
// pixel space to read the darkness of the image.
package vectorize

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/benoitkugler/svgflatten/geom"
)

// ErrUnknown is returned by New for an unsupported name.
var ErrUnknown = errors.New("unknown vectorizer")

// Placement locates the image in the output.
type Placement struct {
	// Matrix maps pixel coordinates to millimeters.
	Matrix rasterx.Matrix2D
	// Clip is the visible area, in millimeters.
	// A nil Clip shows the whole image.
	Clip geom.Region
}

// Vectorizer converts an image to dark geometry in millimeters,
// honoring the minimum feature size `minFeature` (mm).
type Vectorizer interface {
	Vectorize(img image.Image, p Placement, minFeature float64) (geom.Region, error)
}

// VectorizerFunc is an adapter allowing ordinary functions as vectorizers.
type VectorizerFunc func(img image.Image, p Placement, minFeature float64) (geom.Region, error)

func (f VectorizerFunc) Vectorize(img image.Image, p Placement, minFeature float64) (geom.Region, error) {
	return f(img, p, minFeature)
}

var registry = map[string]Vectorizer{
	"poisson-disc":    VectorizerFunc(poissonDisc),
	"hex-grid":        VectorizerFunc(hexGrid),
	"square-grid":     VectorizerFunc(squareGrid),
	"binary-contours": VectorizerFunc(binaryContours),
	"dev-null":        VectorizerFunc(devNull),
}

// New returns the vectorizer registered under `name`.
func New(name string) (Vectorizer, error) {
	v, ok := registry[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return v, nil
}

// Names returns the registered vectorizers, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func devNull(image.Image, Placement, float64) (geom.Region, error) { return nil, nil }

// sampler reads the darkness of an image resampled
// so that one of its pixels is about `cell` millimeters wide.
type sampler struct {
	gray    *image.Gray
	fromPix rasterx.Matrix2D // resampled pixels to mm
	toPix   rasterx.Matrix2D
	bbox    geom.Rect // extent of the image, in mm
}

func newSampler(img image.Image, p Placement, cell float64) (*sampler, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty image")
	}
	if math.Abs(p.Matrix.A*p.Matrix.D-p.Matrix.B*p.Matrix.C) < 1e-12 {
		return nil, errors.New("degenerate image placement")
	}
	w, h := float64(b.Dx()), float64(b.Dy())
	// pixel size in mm, along each axis
	px := math.Hypot(p.Matrix.A, p.Matrix.B)
	py := math.Hypot(p.Matrix.C, p.Matrix.D)

	dw := resampledSize(w, px, cell)
	dh := resampledSize(h, py, cell)
	gray := image.NewGray(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(gray, gray.Bounds(), flattenAlpha(img), b, draw.Src, nil)

	fromPix := p.Matrix.Scale(w/float64(dw), h/float64(dh))
	s := &sampler{gray: gray, fromPix: fromPix, toPix: fromPix.Invert()}
	outline := geom.Rectangle(0, 0, float64(dw), float64(dh)).Transform(func(q geom.Point) geom.Point {
		x, y := fromPix.Transform(q.X, q.Y)
		return geom.Point{X: x, Y: y}
	})
	s.bbox = outline.Bounds()
	return s, nil
}

// resampledSize is the number of samples along an axis of n pixels,
// each `pixel` mm wide, for cells of `cell` mm. It never upsamples.
func resampledSize(n, pixel, cell float64) int {
	out := int(math.Ceil(n * pixel / cell))
	if out > int(n) {
		out = int(n)
	}
	if out < 1 {
		out = 1
	}
	return out
}

// flattenAlpha composites the image on a white background,
// so that transparent areas are light.
func flattenAlpha(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.White, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}

// darkness at the position `q` (mm), in [0, 1], and false if q is
// outside of the image.
func (s *sampler) darkness(q geom.Point) (float64, bool) {
	x, y := s.toPix.Transform(q.X, q.Y)
	if x < 0 || y < 0 {
		return 0, false
	}
	ix, iy := int(x), int(y)
	b := s.gray.Bounds()
	if ix >= b.Dx() || iy >= b.Dy() {
		return 0, false
	}
	return 1 - float64(s.gray.GrayAt(ix, iy).Y)/255, true
}

// clip restricts the geometry to the visible area.
func clip(r geom.Region, p Placement) geom.Region {
	if p.Clip == nil {
		return r
	}
	return geom.Intersection(r, p.Clip)
}
