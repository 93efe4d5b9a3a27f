package vectorize

import (
	"errors"
	"image"

	"github.com/benoitkugler/svgflatten/geom"
)

var errInvalidFeature = errors.New("minimum feature size must be positive")

// threshold of darkness above which a pixel is drawn
const threshold = 0.5

// binaryContours thresholds the image and returns the outline
// of its dark areas. The image is resampled so that its pixels
// are not smaller than half the minimum feature size.
func binaryContours(img image.Image, p Placement, minFeature float64) (geom.Region, error) {
	if err := checkFeature(minFeature); err != nil {
		return nil, err
	}
	s, err := newSampler(img, p, minFeature/2)
	if err != nil {
		return nil, err
	}

	toMM := func(x, y int) geom.Point {
		mx, my := s.fromPix.Transform(float64(x), float64(y))
		return geom.Point{X: mx, Y: my}
	}

	// rows of dark runs, merged vertically when identical
	type run struct{ x0, x1, y0 int }
	var (
		rects []geom.Region
		open  []run
	)
	closeRun := func(r run, y1 int) {
		rects = append(rects, geom.Region{{toMM(r.x0, r.y0), toMM(r.x1, r.y0), toMM(r.x1, y1), toMM(r.x0, y1)}})
	}
	dark := func(x, y int) bool { return 1-float64(s.gray.GrayAt(x, y).Y)/255 >= threshold }
	b := s.gray.Bounds()
	for y := 0; y < b.Dy(); y++ {
		var next []run
		k := 0 // open runs are sorted by x0
		for x := 0; x < b.Dx(); {
			if !dark(x, y) {
				x++
				continue
			}
			x0 := x
			for x < b.Dx() && dark(x, y) {
				x++
			}
			for k < len(open) && open[k].x0 < x0 {
				closeRun(open[k], y)
				k++
			}
			if k < len(open) && open[k].x0 == x0 && open[k].x1 == x {
				next = append(next, open[k])
				k++
			} else {
				next = append(next, run{x0: x0, x1: x, y0: y})
			}
		}
		for ; k < len(open); k++ {
			closeRun(open[k], y)
		}
		open = next
	}
	for _, r := range open {
		closeRun(r, b.Dy())
	}

	return clip(geom.UnionAll(rects), p), nil
}
