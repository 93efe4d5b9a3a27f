package geom

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// Epsilon is the distance under which two points are merged.
const Epsilon = 1e-9

func toPolyclip(r Region) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(r))
	for _, c := range r {
		if len(c) < 3 {
			continue
		}
		pc := make(polyclip.Contour, len(c))
		for i, p := range c {
			pc[i] = polyclip.Point{X: p.X, Y: p.Y}
		}
		out = append(out, pc)
	}
	return out
}

func fromPolyclip(p polyclip.Polygon) Region {
	out := make(Region, 0, len(p))
	for _, pc := range p {
		c := make(Contour, len(pc))
		for i, pt := range pc {
			c[i] = Point{pt.X, pt.Y}
		}
		if c = c.Clean(Epsilon); c != nil && math.Abs(c.Area()) > Epsilon*Epsilon {
			out = append(out, c)
		}
	}
	return out
}

func construct(a Region, op polyclip.Op, b Region) Region {
	return fromPolyclip(toPolyclip(a).Construct(op, toPolyclip(b)))
}

// Union returns the area covered by a or b.
func Union(a, b Region) Region {
	if len(b) == 0 {
		return Normalize(a, EvenOdd)
	}
	if len(a) == 0 {
		return Normalize(b, EvenOdd)
	}
	return construct(a, polyclip.UNION, b)
}

// Difference returns the area covered by a and not by b.
func Difference(a, b Region) Region {
	if len(a) == 0 {
		return nil
	}
	if len(b) == 0 || !a.Bounds().Overlaps(b.Bounds()) {
		return a
	}
	return construct(a, polyclip.DIFFERENCE, b)
}

// Intersection returns the area covered by both a and b.
func Intersection(a, b Region) Region {
	if len(a) == 0 || len(b) == 0 || !a.Bounds().Overlaps(b.Bounds()) {
		return nil
	}
	return construct(a, polyclip.INTERSECTION, b)
}

// Xor returns the area covered by exactly one of a and b.
func Xor(a, b Region) Region {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	return construct(a, polyclip.XOR, b)
}

// UnionAll merges the regions, pairing them as a balanced tree
// to keep the intermediate results small.
func UnionAll(regions []Region) Region {
	switch len(regions) {
	case 0:
		return nil
	case 1:
		return Normalize(regions[0], EvenOdd)
	}
	mid := len(regions) / 2
	return Union(UnionAll(regions[:mid]), UnionAll(regions[mid:]))
}

// FillRule selects how self overlapping paths are filled.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// Normalize converts raw contours, as produced by flattening a path,
// into a normalized region according to the fill rule.
//
// Each contour is first cut at its self crossings into simple loops,
// so that the winding number of a point is the sum of the orientations
// of the loops enclosing it.
func Normalize(contours []Contour, rule FillRule) Region {
	var loops Region
	for _, c := range contours {
		if c = c.Clean(Epsilon); c == nil {
			continue
		}
		for _, l := range splitLoops(c) {
			if math.Abs(l.Area()) > Epsilon*Epsilon {
				loops = append(loops, l)
			}
		}
	}
	if len(loops) == 0 {
		return nil
	}
	if rule == EvenOdd {
		return evenOdd(loops)
	}
	return nonZero(loops)
}

// nonZero returns the area where the winding number of the simple
// loops is not zero.
func nonZero(loops Region) Region {
	positive := 0
	for _, l := range loops {
		if l.Area() > 0 {
			positive++
		}
	}
	if positive == 0 || positive == len(loops) {
		// all the loops turn the same way
		regions := make([]Region, len(loops))
		for i, l := range loops {
			regions[i] = Region{l}
		}
		return UnionAll(regions)
	}

	// overlay the loops, keeping track of the winding of each piece
	type piece struct {
		region  Region
		winding int
	}
	var pieces []piece
	for _, l := range loops {
		w := 1
		if l.Area() < 0 {
			w = -1
		}
		lr := Region{l}
		bounds := l.Bounds()
		rest := lr
		next := make([]piece, 0, len(pieces)+1)
		for _, p := range pieces {
			if !p.region.Bounds().Overlaps(bounds) {
				next = append(next, p)
				continue
			}
			if in := Intersection(p.region, lr); len(in) != 0 {
				next = append(next, piece{in, p.winding + w})
			}
			if out := Difference(p.region, lr); len(out) != 0 {
				next = append(next, piece{out, p.winding})
			}
			rest = Difference(rest, p.region)
		}
		if len(rest) != 0 {
			next = append(next, piece{rest, w})
		}
		pieces = next
	}

	var filled []Region
	for _, p := range pieces {
		if p.winding != 0 {
			filled = append(filled, p.region)
		}
	}
	return UnionAll(filled)
}

// evenOdd resolves the crossings of the contours by intersecting
// them with a rectangle enclosing everything: polyclip interprets
// the contours of one polygon with the even-odd rule.
func evenOdd(r Region) Region {
	if len(r) == 0 {
		return nil
	}
	b := r.Bounds()
	frame := Rectangle(b.Min.X-1, b.Min.Y-1, b.Max.X+1, b.Max.Y+1)
	return construct(r, polyclip.INTERSECTION, Region{frame})
}
