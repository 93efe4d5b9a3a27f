package geom

import (
	"math"
	"sort"
)

// splitLoops cuts the contour at the points where it crosses or
// touches itself, returning loops which are simple.
// The loops use the edges of c, with their orientation.
func splitLoops(c Contour) []Contour {
	n := len(c)
	type cut struct {
		t float64
		p Point
	}
	cuts := make([][]cut, n)

	next := func(i int) int { return (i + 1) % n }
	minX := func(i int) float64 { return math.Min(c[i].X, c[next(i)].X) }
	maxX := func(i int) float64 { return math.Max(c[i].X, c[next(i)].X) }
	edges := make([]int, n)
	for i := range edges {
		edges[i] = i
	}
	sort.Slice(edges, func(a, b int) bool { return minX(edges[a]) < minX(edges[b]) })

	for a, i := range edges {
		p1, p2 := c[i], c[next(i)]
		for _, j := range edges[a+1:] {
			if minX(j) > maxX(i) {
				break
			}
			if j == next(i) || i == next(j) {
				continue
			}
			q1, q2 := c[j], c[next(j)]
			t, u, ok := crossing(p1, p2, q1, q2)
			if !ok {
				continue
			}
			inI, inJ := interior(t), interior(u)
			switch {
			case inI && inJ:
				x := p1.Add(p2.Sub(p1).Mul(t))
				cuts[i] = append(cuts[i], cut{t, x})
				cuts[j] = append(cuts[j], cut{u, x})
			case inI: // a vertex of j lies on i
				cuts[i] = append(cuts[i], cut{t, nearestEnd(q1, q2, u)})
			case inJ:
				cuts[j] = append(cuts[j], cut{u, nearestEnd(p1, p2, t)})
			}
			// shared vertices are caught below
		}
	}

	seq := make([]Point, 0, n)
	for i, p := range c {
		seq = append(seq, p)
		cs := cuts[i]
		sort.Slice(cs, func(a, b int) bool { return cs[a].t < cs[b].t })
		for _, x := range cs {
			seq = append(seq, x.p)
		}
	}

	var (
		loops []Contour
		stack []Point
		at    = make(map[Point]int, len(seq))
	)
	for _, p := range seq {
		k, seen := at[p]
		if !seen {
			at[p] = len(stack)
			stack = append(stack, p)
			continue
		}
		if loop := stack[k:]; len(loop) >= 3 {
			loops = append(loops, append(Contour(nil), loop...))
		}
		for _, q := range stack[k+1:] {
			delete(at, q)
		}
		stack = stack[:k+1]
	}
	if len(stack) >= 3 {
		loops = append(loops, Contour(stack))
	}
	return loops
}

const paramEpsilon = 1e-9

// crossing returns the parameters along p1-p2 and q1-q2 of the
// intersection of the segments, if any. Parallel segments never cross.
func crossing(p1, p2, q1, q2 Point) (t, u float64, ok bool) {
	r, s := p2.Sub(p1), q2.Sub(q1)
	d := r.Cross(s)
	if math.Abs(d) <= Epsilon*Epsilon {
		return 0, 0, false
	}
	w := q1.Sub(p1)
	t, u = w.Cross(s)/d, w.Cross(r)/d
	in := func(v float64) bool { return v >= -paramEpsilon && v <= 1+paramEpsilon }
	return t, u, in(t) && in(u)
}

func interior(t float64) bool { return t > paramEpsilon && t < 1-paramEpsilon }

func nearestEnd(a, b Point, t float64) Point {
	if t < 0.5 {
		return a
	}
	return b
}
