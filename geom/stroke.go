package geom

import "math"

// Join is the shape drawn at the corners of a stroke.
type Join uint8

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Cap is the shape drawn at the ends of an open stroke.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// StrokeStyle describes how a polyline is outlined.
type StrokeStyle struct {
	Width      float64
	Join       Join
	Cap        Cap
	MiterLimit float64
	Dash       []float64
	DashOffset float64
	// Tolerance is the maximum deviation of round joins and caps,
	// 0.01 if zero.
	Tolerance float64
}

// Polyline is a flattened sub path.
type Polyline struct {
	Points []Point
	Closed bool
}

func (pl Polyline) clean() Polyline {
	pts := make([]Point, 0, len(pl.Points))
	for _, p := range pl.Points {
		if len(pts) > 0 && pts[len(pts)-1].Eq(p, Epsilon) {
			continue
		}
		pts = append(pts, p)
	}
	if pl.Closed {
		for len(pts) > 1 && pts[len(pts)-1].Eq(pts[0], Epsilon) {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 3 {
			pl.Closed = false
		}
	}
	return Polyline{Points: pts, Closed: pl.Closed}
}

// StrokeOutline returns the area covered by stroking the lines.
func StrokeOutline(lines []Polyline, st StrokeStyle) Region {
	if st.Width <= 0 {
		return nil
	}
	if st.Tolerance <= 0 {
		st.Tolerance = 0.01
	}
	if pattern := dashPattern(st.Dash); pattern != nil {
		lines = applyDashes(lines, pattern, st.DashOffset)
	}
	var pieces []Region
	for _, pl := range lines {
		pieces = append(pieces, strokePieces(pl.clean(), st)...)
	}
	return UnionAll(pieces)
}

func strokePieces(pl Polyline, st StrokeStyle) []Region {
	w := st.Width / 2
	pts := pl.Points
	var out []Region
	add := func(c Contour) {
		if math.Abs(c.Area()) > Epsilon {
			out = append(out, Region{c})
		}
	}
	circle := func(p Point) {
		add(Circle(p, w, CircleSegments(w, st.Tolerance)))
	}

	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		// zero length sub path: only caps are visible
		switch st.Cap {
		case CapRound:
			circle(pts[0])
		case CapSquare:
			p := pts[0]
			add(Rectangle(p.X-w, p.Y-w, p.X+w, p.Y+w))
		}
		return out
	}

	n := len(pts) - 1
	if pl.Closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		nv := b.Sub(a).Normal().Mul(w)
		add(Contour{a.Add(nv), b.Add(nv), b.Sub(nv), a.Sub(nv)})
	}

	// joins at interior vertices, and at every vertex of a closed line
	first, last := 1, len(pts)-1
	if pl.Closed {
		first, last = 0, len(pts)
	}
	for i := first; i < last; i++ {
		prev := pts[(i-1+len(pts))%len(pts)]
		v := pts[i]
		next := pts[(i+1)%len(pts)]
		d1, d2 := v.Sub(prev), next.Sub(v)
		turn := d1.Cross(d2)
		if math.Abs(turn) < Epsilon*d1.Len()*d2.Len() && d1.Dot(d2) > 0 {
			continue // collinear
		}
		if st.Join == JoinRound {
			circle(v)
			continue
		}
		n1, n2 := d1.Normal(), d2.Normal()
		s := -1.0
		if turn < 0 {
			s = 1
		}
		p1, p2 := v.Add(n1.Mul(s*w)), v.Add(n2.Mul(s*w))
		if st.Join == JoinMiter {
			cos := n1.Dot(n2)
			if ratio := math.Sqrt(2 / (1 + cos)); 1+cos > Epsilon && ratio <= st.MiterLimit {
				tip := v.Add(n1.Add(n2).Mul(s * w / (1 + cos)))
				add(Contour{v, p1, tip, p2})
				continue
			}
		}
		add(Contour{v, p1, p2})
	}

	if !pl.Closed {
		switch st.Cap {
		case CapRound:
			circle(pts[0])
			circle(pts[len(pts)-1])
		case CapSquare:
			out = append(out, squareCap(pts[1], pts[0], w), squareCap(pts[len(pts)-2], pts[len(pts)-1], w))
		}
	}
	return out
}

// squareCap extends the segment from -> to by w beyond to.
func squareCap(from, to Point, w float64) Region {
	d := to.Sub(from)
	d = d.Mul(w / d.Len())
	nv := d.Normal().Mul(w)
	end := to.Add(d)
	return Region{{to.Add(nv), end.Add(nv), end.Sub(nv), to.Sub(nv)}}
}

// dashPattern returns nil when the dash array disables dashing.
func dashPattern(dash []float64) []float64 {
	var sum float64
	for _, d := range dash {
		if d < 0 {
			return nil
		}
		sum += d
	}
	if sum <= 0 {
		return nil
	}
	if len(dash)%2 == 1 {
		dash = append(append([]float64(nil), dash...), dash...)
	}
	return dash
}

// applyDashes splits the lines into the visible dashes.
func applyDashes(lines []Polyline, pattern []float64, offset float64) []Polyline {
	var total float64
	for _, d := range pattern {
		total += d
	}
	var out []Polyline
	for _, pl := range lines {
		pts := pl.Points
		if pl.Closed && len(pts) > 0 {
			pts = append(append([]Point(nil), pts...), pts[0])
		}
		if len(pts) < 2 {
			continue
		}

		// position in the pattern
		pos := math.Mod(offset, total)
		if pos < 0 {
			pos += total
		}
		idx := 0
		for pos >= pattern[idx] {
			pos -= pattern[idx]
			idx = (idx + 1) % len(pattern)
		}
		remaining := pattern[idx] - pos

		var cur []Point
		if idx%2 == 0 {
			cur = []Point{pts[0]}
		}
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			segLen := a.Dist(b)
			done := 0.0
			for segLen-done > remaining {
				done += remaining
				p := a.Add(b.Sub(a).Mul(done / segLen))
				if idx%2 == 0 {
					out = append(out, Polyline{Points: append(cur, p)})
					cur = nil
				} else {
					cur = []Point{p}
				}
				idx = (idx + 1) % len(pattern)
				remaining = pattern[idx]
			}
			remaining -= segLen - done
			if idx%2 == 0 {
				cur = append(cur, b)
			}
		}
		if idx%2 == 0 && len(cur) > 1 {
			out = append(out, Polyline{Points: cur})
		}
	}
	return out
}
