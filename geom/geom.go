// Package geom provides the polygon model shared by the renderer,
// the vectorizers and the output sinks, with boolean operations
// backed by polyclip.
//
// Coordinates are in millimeters, with the y axis pointing down
// as in SVG.
package geom

import (
	"math"
)

// Point is a 2D position.
type Point struct{ X, Y float64 }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(f float64) Point   { return Point{p.X * f, p.Y * f} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return p.Sub(q).Len() }

func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Normal returns the unit vector rotated by 90° (left of the direction
// of travel in a y-up frame), or the zero vector for a null input.
func (p Point) Normal() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{-p.Y / l, p.X / l}
}

// Rect is an axis aligned rectangle.
type Rect struct{ Min, Max Point }

// Empty is true when the rectangle contains no point.
func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Overlaps is true if the rectangles share a point.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// Contour is a closed polygon: the last point is implicitly
// connected to the first one.
type Contour []Point

// Area returns the signed area of the contour, positive
// for a counter clockwise orientation in a y-up frame.
func (c Contour) Area() float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}

// Bounds returns the bounding box of the contour.
func (c Contour) Bounds() Rect {
	r := Rect{Min: Point{math.Inf(1), math.Inf(1)}, Max: Point{math.Inf(-1), math.Inf(-1)}}
	for _, p := range c {
		r.Min.X, r.Min.Y = math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Contains uses the even-odd ray casting rule.
func (c Contour) Contains(p Point) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Reversed returns a copy with the opposite orientation.
func (c Contour) Reversed() Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// Transform applies fn to every point, returning a new contour.
func (c Contour) Transform(fn func(Point) Point) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = fn(p)
	}
	return out
}

// Clean removes consecutive duplicates (including the closing point)
// and returns nil for contours with less than 3 points.
func (c Contour) Clean(eps float64) Contour {
	out := make(Contour, 0, len(c))
	for _, p := range c {
		if len(out) > 0 && out[len(out)-1].Eq(p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Eq(out[0], eps) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// Region is a set of non crossing contours, interpreted with the
// even-odd rule: holes are contours nested inside an outer one.
// Regions returned by the boolean operations of this package
// are always normalized.
type Region []Contour

// Bounds returns the bounding box of the region.
func (r Region) Bounds() Rect {
	out := Rect{Min: Point{math.Inf(1), math.Inf(1)}, Max: Point{math.Inf(-1), math.Inf(-1)}}
	for _, c := range r {
		out = out.Union(c.Bounds())
	}
	return out
}

// Area returns the covered area, holes excluded.
func (r Region) Area() float64 {
	var a float64
	for _, n := range r.nest() {
		s := math.Abs(r[n.index].Area())
		if n.depth%2 == 1 {
			s = -s
		}
		a += s
	}
	return a
}

// Contains tests the point with the even-odd rule.
func (r Region) Contains(p Point) bool {
	in := false
	for _, c := range r {
		if c.Contains(p) {
			in = !in
		}
	}
	return in
}

// Transform applies fn to every point.
func (r Region) Transform(fn func(Point) Point) Region {
	out := make(Region, len(r))
	for i, c := range r {
		out[i] = c.Transform(fn)
	}
	return out
}

// Rectangle returns the contour of the axis aligned rectangle.
func Rectangle(minX, minY, maxX, maxY float64) Contour {
	return Contour{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
}

// CircleSegments returns the number of segments required to approximate
// a circle of radius r, with a maximum deviation of tol.
func CircleSegments(r, tol float64) int {
	if r <= tol {
		return 8
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-tol/r)))
	if n < 8 {
		n = 8
	}
	if n > 256 {
		n = 256
	}
	return n
}

// Circle returns a regular polygon of n vertices inscribed in the circle.
func Circle(center Point, r float64, n int) Contour {
	out := make(Contour, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = Point{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
	}
	return out
}
