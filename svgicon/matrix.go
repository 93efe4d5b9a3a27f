package svgicon

import (
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an SVG style matrix.
// It is an alias so that transforms can be handed
// to rasterx without conversion.
type Matrix2D = rasterx.Matrix2D

// Identity is the identity matrix
var Identity = rasterx.Identity

// toFixed applies `m` to `p` and rounds to the
// 26.6 fixed point grid.
func toFixed(m Matrix2D, p Point) fixed.Point26_6 {
	x, y := m.Transform(p.X, p.Y)
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}

// ScaleFactor returns the mean linear scaling of `m`,
// used to transform lengths such as stroke widths.
func ScaleFactor(m Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}
