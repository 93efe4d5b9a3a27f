package vectorize

import (
	"image"
	"math"
	"math/rand"

	"github.com/benoitkugler/svgflatten/geom"
)

// pitchFactor is the distance between dots, in minimum feature sizes
const pitchFactor = 5

// dotter turns samples of the image into dots whose area
// is proportional to the darkness around them.
type dotter struct {
	s          *sampler
	minFeature float64
	cellArea   float64 // area of the image represented by one dot
	maxRadius  float64 // keeps a gap of minFeature between dots
	dots       geom.Region
}

func newDotter(img image.Image, p Placement, minFeature, cellArea float64) (*dotter, error) {
	pitch := pitchFactor * minFeature
	s, err := newSampler(img, p, pitch/2)
	if err != nil {
		return nil, err
	}
	return &dotter{
		s:          s,
		minFeature: minFeature,
		cellArea:   cellArea,
		maxRadius:  (pitch - minFeature) / 2,
	}, nil
}

func (d *dotter) dot(center geom.Point) {
	dark, ok := d.s.darkness(center)
	if !ok {
		return
	}
	r := math.Sqrt(dark * d.cellArea / math.Pi)
	if r > d.maxRadius {
		r = d.maxRadius
	}
	if 2*r < d.minFeature {
		return
	}
	d.dots = append(d.dots, geom.Circle(center, r, geom.CircleSegments(r, d.minFeature/20)))
}

func checkFeature(minFeature float64) error {
	if minFeature <= 0 || math.IsNaN(minFeature) || math.IsInf(minFeature, 0) {
		return errInvalidFeature
	}
	return nil
}

func squareGrid(img image.Image, p Placement, minFeature float64) (geom.Region, error) {
	if err := checkFeature(minFeature); err != nil {
		return nil, err
	}
	pitch := pitchFactor * minFeature
	d, err := newDotter(img, p, minFeature, pitch*pitch)
	if err != nil {
		return nil, err
	}
	b := d.s.bbox
	for y := b.Min.Y + pitch/2; y < b.Max.Y; y += pitch {
		for x := b.Min.X + pitch/2; x < b.Max.X; x += pitch {
			d.dot(geom.Point{X: x, Y: y})
		}
	}
	return clip(d.dots, p), nil
}

func hexGrid(img image.Image, p Placement, minFeature float64) (geom.Region, error) {
	if err := checkFeature(minFeature); err != nil {
		return nil, err
	}
	pitch := pitchFactor * minFeature
	rowStep := pitch * math.Sqrt(3) / 2
	d, err := newDotter(img, p, minFeature, pitch*rowStep)
	if err != nil {
		return nil, err
	}
	b := d.s.bbox
	row := 0
	for y := b.Min.Y + rowStep/2; y < b.Max.Y; y += rowStep {
		offset := pitch / 2
		if row%2 == 1 {
			offset = pitch
		}
		for x := b.Min.X + offset; x < b.Max.X; x += pitch {
			d.dot(geom.Point{X: x, Y: y})
		}
		row++
	}
	return clip(d.dots, p), nil
}

// poissonSeed makes the output reproducible
const poissonSeed = 0x5eed

// poissonDisc places dots at random positions, at least one pitch
// apart, using Bridson's algorithm.
func poissonDisc(img image.Image, p Placement, minFeature float64) (geom.Region, error) {
	if err := checkFeature(minFeature); err != nil {
		return nil, err
	}
	pitch := pitchFactor * minFeature
	// mean area of a Voronoi cell for a maximal Poisson disc sampling
	d, err := newDotter(img, p, minFeature, 0.7*math.Pi*pitch*pitch/2)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(poissonSeed))
	for _, c := range bridson(d.s.bbox, pitch, rng) {
		d.dot(c)
	}
	return clip(d.dots, p), nil
}

// bridson returns points in `area`, separated by at least `radius`.
func bridson(area geom.Rect, radius float64, rng *rand.Rand) []geom.Point {
	const attempts = 30
	w, h := area.Max.X-area.Min.X, area.Max.Y-area.Min.Y
	if w <= 0 || h <= 0 {
		return nil
	}
	cell := radius / math.Sqrt2
	cols, rows := int(math.Ceil(w/cell)), int(math.Ceil(h/cell))
	grid := make([]int, cols*rows) // index+1 in points, 0 for empty
	var (
		points []geom.Point
		active []int
	)
	cellOf := func(q geom.Point) (int, int) {
		i, j := int((q.X-area.Min.X)/cell), int((q.Y-area.Min.Y)/cell)
		return min(i, cols-1), min(j, rows-1)
	}
	add := func(q geom.Point) {
		points = append(points, q)
		i, j := cellOf(q)
		grid[j*cols+i] = len(points)
		active = append(active, len(points)-1)
	}
	fits := func(q geom.Point) bool {
		if q.X < area.Min.X || q.X >= area.Max.X || q.Y < area.Min.Y || q.Y >= area.Max.Y {
			return false
		}
		i, j := cellOf(q)
		for y := max(j-2, 0); y <= min(j+2, rows-1); y++ {
			for x := max(i-2, 0); x <= min(i+2, cols-1); x++ {
				if k := grid[y*cols+x]; k != 0 && points[k-1].Dist(q) < radius {
					return false
				}
			}
		}
		return true
	}

	add(geom.Point{X: area.Min.X + rng.Float64()*w, Y: area.Min.Y + rng.Float64()*h})
	for len(active) > 0 {
		k := rng.Intn(len(active))
		origin := points[active[k]]
		found := false
		for n := 0; n < attempts; n++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := radius * (1 + rng.Float64())
			q := geom.Point{X: origin.X + dist*math.Cos(angle), Y: origin.Y + dist*math.Sin(angle)}
			if fits(q) {
				add(q)
				found = true
				break
			}
		}
		if !found {
			active[k] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points
}
