package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) Contour {
	return Rectangle(x, y, x+size, y+size)
}

func TestContourBasics(t *testing.T) {
	c := square(0, 0, 2)
	assert.InDelta(t, 4, c.Area(), 1e-12)
	assert.InDelta(t, -4, c.Reversed().Area(), 1e-12)
	assert.True(t, c.Contains(Point{1, 1}))
	assert.False(t, c.Contains(Point{3, 1}))
	assert.Equal(t, Rect{Point{0, 0}, Point{2, 2}}, c.Bounds())

	dup := Contour{{0, 0}, {0, 0}, {1, 0}, {1, 1}, {0, 0}}
	assert.Equal(t, Contour{{0, 0}, {1, 0}, {1, 1}}, dup.Clean(Epsilon))
	assert.Nil(t, Contour{{0, 0}, {1, 1}, {1, 1}}.Clean(Epsilon))
}

func TestBooleanOps(t *testing.T) {
	a := Region{square(0, 0, 2)}
	b := Region{square(1, 1, 2)}

	assert.InDelta(t, 7, Union(a, b).Area(), 1e-9)
	assert.InDelta(t, 1, Intersection(a, b).Area(), 1e-9)
	assert.InDelta(t, 3, Difference(a, b).Area(), 1e-9)
	assert.InDelta(t, 6, Xor(a, b).Area(), 1e-9)

	far := Region{square(10, 10, 1)}
	assert.Nil(t, Intersection(a, far))
	assert.Equal(t, a, Difference(a, far))
	assert.Nil(t, Difference(nil, a))
}

func TestUnionAll(t *testing.T) {
	var regions []Region
	for i := 0; i < 5; i++ {
		regions = append(regions, Region{square(float64(i), 0, 1.5)})
	}
	u := UnionAll(regions)
	require.Len(t, u, 1)
	assert.InDelta(t, 5.5*1.5, u.Area(), 1e-9)
	assert.Nil(t, UnionAll(nil))
}

func TestNormalizeFillRules(t *testing.T) {
	outer := square(0, 0, 4)
	inner := square(1, 1, 2)

	// same orientation: nonzero fills the inner square, evenodd does not
	assert.InDelta(t, 16, Normalize([]Contour{outer, inner}, NonZero).Area(), 1e-9)
	assert.InDelta(t, 12, Normalize([]Contour{outer, inner}, EvenOdd).Area(), 1e-9)

	// opposite orientation cuts a hole under both rules
	assert.InDelta(t, 12, Normalize([]Contour{outer, inner.Reversed()}, NonZero).Area(), 1e-9)

	// bow tie: the crossing is resolved
	bow := Contour{{0, 0}, {2, 2}, {2, 0}, {0, 2}}
	r := Normalize([]Contour{bow}, EvenOdd)
	assert.InDelta(t, 2, r.Area(), 1e-9)
	// its two lobes are wound in opposite directions
	r = Normalize([]Contour{bow}, NonZero)
	assert.InDelta(t, 2, r.Area(), 1e-9)
	assert.True(t, r.Contains(Point{X: 0.5, Y: 1}))
	assert.True(t, r.Contains(Point{X: 1.5, Y: 1}))

	assert.Nil(t, Normalize([]Contour{{{0, 0}, {1, 1}}}, NonZero))
}

// pentagram inscribed in a circle of radius R
func pentagram(R float64) Contour {
	var out Contour
	for _, k := range []int{0, 2, 4, 1, 3} {
		a := 2 * math.Pi * float64(k) / 5
		out = append(out, Point{X: R * math.Sin(a), Y: -R * math.Cos(a)})
	}
	return out
}

func TestNormalizePentagram(t *testing.T) {
	const R = 10
	star := []Contour{pentagram(R)}
	r := R * math.Cos(2*math.Pi/5) / math.Cos(math.Pi/5) // radius of the inner pentagon
	pentagon := 2.5 * r * r * math.Sin(2*math.Pi/5)
	full := 5 * R * r * math.Sin(math.Pi/5)

	// the inner pentagon has a winding number of 2
	winding := Normalize(star, NonZero)
	assert.InDelta(t, full, winding.Area(), 1e-6)
	assert.True(t, winding.Contains(Point{}))

	parity := Normalize(star, EvenOdd)
	assert.InDelta(t, full-pentagon, parity.Area(), 1e-6)
	assert.False(t, parity.Contains(Point{}))

	// reversing the orientation does not change the filled area
	assert.InDelta(t, full, Normalize([]Contour{star[0].Reversed()}, NonZero).Area(), 1e-6)
}

func TestNormalizeOverlappingContours(t *testing.T) {
	a, b := square(0, 0, 2), square(1, 1, 2)
	// opposite windings cancel where the squares overlap
	cancel := Normalize([]Contour{a, b.Reversed()}, NonZero)
	assert.True(t, cancel.Contains(Point{X: 0.5, Y: 0.5}))
	assert.True(t, cancel.Contains(Point{X: 2.5, Y: 2.5}))
	assert.False(t, cancel.Contains(Point{X: 1.5, Y: 1.5}))
	assert.False(t, cancel.Contains(Point{X: 2.5, Y: 0.5}))

	same := Normalize([]Contour{a, b}, NonZero)
	assert.InDelta(t, 7, same.Area(), 1e-9)
	assert.True(t, same.Contains(Point{X: 1.5, Y: 1.5}))

	assert.InDelta(t, 6, Normalize([]Contour{a, b}, EvenOdd).Area(), 1e-9)
}

func TestSplitLoops(t *testing.T) {
	bow := Contour{{0, 0}, {2, 2}, {2, 0}, {0, 2}}
	loops := splitLoops(bow)
	require.Len(t, loops, 2)
	assert.InDelta(t, 0, loops[0].Area()+loops[1].Area(), 1e-12)
	assert.InDelta(t, 2, math.Abs(loops[0].Area())+math.Abs(loops[1].Area()), 1e-12)

	// figure eight through a shared vertex
	eight := Contour{{0, 0}, {1, 1}, {2, 0}, {2, 2}, {1, 1}, {0, 2}}
	require.Len(t, splitLoops(eight), 2)

	// the loops of a pentagram carry its whole winding
	var total float64
	for _, l := range splitLoops(pentagram(10)) {
		total += l.Area()
	}
	assert.InDelta(t, pentagram(10).Area(), total, 1e-9)

	sq := square(0, 0, 1)
	assert.Equal(t, []Contour{sq}, splitLoops(sq))
}

func TestSimpleBridgesHoles(t *testing.T) {
	r := Region{square(0, 0, 10), square(2, 2, 2), square(6, 6, 2)}
	require.InDelta(t, 92, r.Area(), 1e-9)

	simple := r.Simple()
	require.Len(t, simple, 1)
	c := simple[0]
	assert.Greater(t, c.Area(), 0.0)
	assert.InDelta(t, 92, c.Area(), 1e-9)
	assert.False(t, Region{c}.Contains(Point{3, 3}))
	assert.False(t, Region{c}.Contains(Point{7, 7}))
	assert.True(t, Region{c}.Contains(Point{5, 1}))

	// island inside a hole is its own outer contour
	r = append(r, square(2.5, 2.5, 1))
	simple = r.Simple()
	require.Len(t, simple, 2)
	assert.InDelta(t, 93, math.Abs(simple[0].Area())+math.Abs(simple[1].Area()), 1e-9)
}

func TestStrokeOutline(t *testing.T) {
	line := []Polyline{{Points: []Point{{0, 0}, {10, 0}}}}

	butt := StrokeOutline(line, StrokeStyle{Width: 2})
	assert.InDelta(t, 20, butt.Area(), 1e-9)

	sq := StrokeOutline(line, StrokeStyle{Width: 2, Cap: CapSquare})
	assert.InDelta(t, 24, sq.Area(), 1e-9)

	round := StrokeOutline(line, StrokeStyle{Width: 2, Cap: CapRound, Tolerance: 1e-4})
	assert.InDelta(t, 20+math.Pi, round.Area(), 1e-2)

	assert.Nil(t, StrokeOutline(line, StrokeStyle{Width: 0}))
}

func TestStrokeJoins(t *testing.T) {
	corner := []Polyline{{Points: []Point{{0, 0}, {10, 0}, {10, 10}}}}

	miter := StrokeOutline(corner, StrokeStyle{Width: 2, Join: JoinMiter, MiterLimit: 4})
	bevel := StrokeOutline(corner, StrokeStyle{Width: 2, Join: JoinBevel})
	// the miter adds the corner square, the bevel only half of it
	assert.InDelta(t, 40, miter.Area(), 1e-9)
	assert.InDelta(t, 39.5, bevel.Area(), 1e-9)

	clipped := StrokeOutline(corner, StrokeStyle{Width: 2, Join: JoinMiter, MiterLimit: 1})
	assert.InDelta(t, 39.5, clipped.Area(), 1e-9)

	closed := []Polyline{{Points: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, Closed: true}}
	frame := StrokeOutline(closed, StrokeStyle{Width: 2, MiterLimit: 4})
	assert.InDelta(t, 12*12-8*8, frame.Area(), 1e-9)
}

func TestDashes(t *testing.T) {
	line := []Polyline{{Points: []Point{{0, 0}, {10, 0}}}}
	dashed := applyDashes(line, []float64{2, 2}, 0)
	require.Len(t, dashed, 3)
	assert.Equal(t, []Point{{0, 0}, {2, 0}}, dashed[0].Points)
	assert.Equal(t, []Point{{8, 0}, {10, 0}}, dashed[2].Points)

	shifted := applyDashes(line, []float64{2, 2}, 1)
	require.Len(t, shifted, 3)
	assert.Equal(t, []Point{{0, 0}, {1, 0}}, shifted[0].Points)

	assert.Nil(t, dashPattern([]float64{0, 0}))
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, dashPattern([]float64{1, 2, 3}))
	assert.Nil(t, dashPattern([]float64{1, -1}))

	r := StrokeOutline(line, StrokeStyle{Width: 1, Dash: []float64{2, 2}})
	assert.InDelta(t, 6, r.Area(), 1e-9)
}
