package geom

import (
	"math"
	"sort"
)

type nesting struct {
	index  int
	depth  int // number of contours enclosing this one
	parent int // smallest enclosing contour, -1 for none
}

// encloses is true if d contains the whole of c, assuming
// the contours do not cross.
func encloses(d, c Contour) bool {
	bd, bc := d.Bounds(), c.Bounds()
	if bc.Min.X < bd.Min.X || bc.Min.Y < bd.Min.Y || bc.Max.X > bd.Max.X || bc.Max.Y > bd.Max.Y {
		return false
	}
	// vertices may lie on the boundary of d when contours touch:
	// use the first decisive one
	inside, outside := 0, 0
	for _, p := range c {
		if d.Contains(p) {
			inside++
		} else {
			outside++
		}
		if inside > 1 || outside > 1 {
			break
		}
	}
	return inside > outside
}

func (r Region) nest() []nesting {
	out := make([]nesting, len(r))
	areas := make([]float64, len(r))
	for i, c := range r {
		areas[i] = math.Abs(c.Area())
		out[i] = nesting{index: i, parent: -1}
	}
	for i, c := range r {
		for j, d := range r {
			if i == j || areas[j] <= areas[i] || !encloses(d, c) {
				continue
			}
			out[i].depth++
			if p := out[i].parent; p == -1 || areas[j] < areas[p] {
				out[i].parent = j
			}
		}
	}
	return out
}

// Simple returns the region as a list of simple contours without holes:
// each hole is connected to its enclosing contour by a zero width bridge.
// Outer contours are returned with a positive area.
func (r Region) Simple() []Contour {
	nests := r.nest()
	holes := make(map[int][]Contour)
	var outers []int
	for _, n := range nests {
		if n.depth%2 == 0 {
			outers = append(outers, n.index)
		} else if n.parent != -1 {
			holes[n.parent] = append(holes[n.parent], r[n.index])
		}
	}

	out := make([]Contour, 0, len(outers))
	for _, i := range outers {
		outer := r[i]
		if outer.Area() < 0 {
			outer = outer.Reversed()
		} else {
			outer = append(Contour(nil), outer...)
		}
		hs := holes[i]
		sort.Slice(hs, func(a, b int) bool { return hs[a].Bounds().Max.X > hs[b].Bounds().Max.X })
		for _, h := range hs {
			if h.Area() > 0 {
				h = h.Reversed()
			}
			outer = bridge(outer, h)
		}
		out = append(out, outer)
	}
	return out
}

// bridge splices the hole into the outer contour, through a horizontal
// segment starting at the rightmost vertex of the hole.
func bridge(outer, hole Contour) Contour {
	m := 0
	for k, p := range hole {
		if p.X > hole[m].X {
			m = k
		}
	}
	mp := hole[m]

	// nearest crossing of the ray from mp toward +X
	edge, hitX := -1, math.Inf(1)
	for i := range outer {
		a, b := outer[i], outer[(i+1)%len(outer)]
		if (a.Y > mp.Y) == (b.Y > mp.Y) {
			continue
		}
		x := a.X + (mp.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x >= mp.X && x < hitX {
			edge, hitX = i, x
		}
	}

	var (
		at  int
		hit Point
	)
	if edge == -1 {
		// numerical corner case: fall back to the nearest vertex
		best := math.Inf(1)
		for i, p := range outer {
			if d := p.Dist(mp); d < best {
				at, best = i, d
			}
		}
		hit = outer[at]
	} else {
		at, hit = edge, Point{hitX, mp.Y}
	}

	res := make(Contour, 0, len(outer)+len(hole)+3)
	res = append(res, outer[:at+1]...)
	res = append(res, hit)
	for k := 0; k <= len(hole); k++ {
		res = append(res, hole[(m+k)%len(hole)])
	}
	res = append(res, hit)
	res = append(res, outer[at+1:]...)
	return res
}
