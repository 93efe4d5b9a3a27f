package svgicon

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Given a parsed SVG document, implements how to
// send its paths to a backend.
// This requires a driver implementing the actual draw operations,
// such as a polygon collector.

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG kwowledge
// In particular, tranformations matrix are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new path at the given point.
	Start(a fixed.Point26_6)

	// Line Adds a line for the current point to `b`
	Line(b fixed.Point26_6)

	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)

	// Closes the path to the start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetColor set the color for the current path
	SetColor(color Pattern, opacity float64)

	// Draw fills or strokes the accumulated path using the current settings
	// depending on the filling mode
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, one can assume that the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
// ArcClip mode is like MiterClip applied to arcs, and is not part of the SVG2.0
// standard.
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip   // Like MiterClip applied to arcs, and is not part of the SVG2.0 standard.
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	case MiterClip:
		return "MiterClip"
	case Arc:
		return "Arc"
	case ArcClip:
		return "ArcClip"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	NilCap CapMode = iota // default value
	ButtCap
	SquareCap
	RoundCap
)

func (c CapMode) String() string {
	switch c {
	case NilCap:
		return "NilCap"
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

type JoinOptions struct {
	MiterLimit float64  // the miter cutoff value for miter, arc, miterclip and arcClip joinModes
	LineJoin   JoinMode // JoinMode for curve segments
	LineCap    CapMode  // capping function for both line ends
}

// StrokeOptions are expressed in the driver space:
// the width and the dash lengths are scaled by the path transform
// and use the same 26.6 units as the points.
type StrokeOptions struct {
	LineWidth fixed.Int26_6 // width of the line
	Join      JoinOptions
	Dash      DashOptions
}

// Draw sends the path to the driver `d`, while applying transform t
// on top of the path own transform.
func (svgp *SvgPath) Draw(d Driver, opacity float64, t Matrix2D) {
	m := t.Mult(svgp.Style.transform)

	filler, stroker := d.SetupDrawers(svgp.Style.FillerColor != nil, svgp.Style.LinerColor != nil && svgp.Style.LineWidth > 0)
	if filler != nil { // nil color disable filling
		filler.Clear()
		filler.SetWinding(svgp.Style.UseNonZeroWinding)

		for _, op := range svgp.Path {
			op.drawTo(filler, m)
		}
		filler.Stop(false)

		filler.SetColor(svgp.Style.FillerColor, svgp.Style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil color disable lining
		stroker.Clear()

		scale := ScaleFactor(m) * 64
		lineCap := svgp.Style.Join.LineCap
		if lineCap == NilCap {
			lineCap = DefaultStyle.Join.LineCap
		}
		var dash DashOptions
		if len(svgp.Style.Dash.Dash) > 0 {
			dash.Dash = make([]float64, len(svgp.Style.Dash.Dash))
			for i, v := range svgp.Style.Dash.Dash {
				dash.Dash[i] = v * scale
			}
			dash.DashOffset = svgp.Style.Dash.DashOffset * scale
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth: fixed.Int26_6(math.Round(svgp.Style.LineWidth * scale)),
			Join: JoinOptions{
				MiterLimit: svgp.Style.Join.MiterLimit,
				LineJoin:   svgp.Style.Join.LineJoin,
				LineCap:    lineCap,
			},
			Dash: dash,
		})

		for _, op := range svgp.Path {
			op.drawTo(stroker, m)
		}
		stroker.Stop(false)

		stroker.SetColor(svgp.Style.LinerColor, svgp.Style.LineOpacity*opacity)
		stroker.Draw()
	}
}
