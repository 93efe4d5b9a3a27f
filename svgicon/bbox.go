package svgicon

import (
	"math"
)

// compute the bounding box of paths, used when a document
// does not declare its viewport

type rect struct{ minX, minY, maxX, maxY float64 }

func emptyRect() rect {
	return rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (r *rect) add(x, y float64) {
	r.minX = math.Min(r.minX, x)
	r.minY = math.Min(r.minY, y)
	r.maxX = math.Max(r.maxX, x)
	r.maxY = math.Max(r.maxY, y)
}

func (r rect) isEmpty() bool { return r.minX > r.maxX || r.minY > r.maxY }

func (r rect) bounds() Bounds {
	return Bounds{X: r.minX, Y: r.minY, W: r.maxX - r.minX, H: r.maxY - r.minY}
}

func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func inUnit(ts []float64) []float64 {
	out := ts[:0]
	for _, t := range ts {
		if 0 < t && t < 1 {
			out = append(out, t)
		}
	}
	return out
}

// Bounds returns the extent of the path after applying `m`.
// The boolean is false for an empty path.
func (p Path) Bounds(m Matrix2D) (Bounds, bool) {
	r := emptyRect()
	tr := func(q Point) Point {
		x, y := m.Transform(q.X, q.Y)
		return Point{x, y}
	}
	var pen Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			pen = tr(Point(op))
			r.add(pen.X, pen.Y)
		case LineTo:
			pen = tr(Point(op))
			r.add(pen.X, pen.Y)
		case QuadTo:
			p1, p2 := tr(op[0]), tr(op[1])
			aX, bX := quadraticDerivative(pen.X, p1.X, p2.X)
			aY, bY := quadraticDerivative(pen.Y, p1.Y, p2.Y)
			for _, t := range append(inUnit(linearRoots(aX, bX)), inUnit(linearRoots(aY, bY))...) {
				r.add(bezierQuad(pen.X, p1.X, p2.X, t), bezierQuad(pen.Y, p1.Y, p2.Y, t))
			}
			r.add(p2.X, p2.Y)
			pen = p2
		case CubicTo:
			p1, p2, p3 := tr(op[0]), tr(op[1]), tr(op[2])
			aX, bX, cX := cubicDerivative(pen.X, p1.X, p2.X, p3.X)
			aY, bY, cY := cubicDerivative(pen.Y, p1.Y, p2.Y, p3.Y)
			for _, t := range append(inUnit(quadraticRoots(aX, bX, cX)), inUnit(quadraticRoots(aY, bY, cY))...) {
				r.add(bezierSpline(pen.X, p1.X, p2.X, p3.X, t), bezierSpline(pen.Y, p1.Y, p2.Y, p3.Y, t))
			}
			r.add(p3.X, p3.Y)
			pen = p3
		}
	}
	if r.isEmpty() {
		return Bounds{}, false
	}
	return r.bounds(), true
}

// ContentBounds returns the extent of the drawable elements,
// in document units. Strokes are not taken into account.
func (doc *Document) ContentBounds() (Bounds, bool) {
	r := emptyRect()
	for _, e := range doc.Elements {
		switch e := e.(type) {
		case *SvgPath:
			if b, ok := e.Path.Bounds(e.Style.transform); ok {
				r.add(b.X, b.Y)
				r.add(b.X+b.W, b.Y+b.H)
			}
		case *SvgImage:
			for _, c := range [4]Point{{e.X, e.Y}, {e.X + e.W, e.Y}, {e.X, e.Y + e.H}, {e.X + e.W, e.Y + e.H}} {
				x, y := e.transform.Transform(c.X, c.Y)
				r.add(x, y)
			}
		}
	}
	if r.isEmpty() {
		return Bounds{}, false
	}
	return r.bounds(), true
}
