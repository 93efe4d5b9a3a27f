package render

import (
	"strings"

	"github.com/benoitkugler/svgflatten/geom"
	"github.com/benoitkugler/svgflatten/svgicon"
	"github.com/benoitkugler/svgflatten/vectorize"
)

// aspectRatio is a parsed preserveAspectRatio attribute
type aspectRatio struct {
	none   bool
	ax, ay float64 // alignment: 0 for min, 0.5 for mid, 1 for max
	slice  bool
}

func alignment(s string) (float64, bool) {
	switch s {
	case "min":
		return 0, true
	case "mid":
		return 0.5, true
	case "max":
		return 1, true
	}
	return 0, false
}

// parseAspectRatio parses `[defer] <align> [meet|slice]`, with
// xMidYMid meet as default for missing or invalid parts.
func parseAspectRatio(s string) aspectRatio {
	out := aspectRatio{ax: 0.5, ay: 0.5}
	fields := strings.Fields(s)
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return out
	}
	align := strings.ToLower(fields[0])
	if align == "none" {
		out.none = true
		return out
	}
	if len(align) == 8 && align[0] == 'x' && align[4] == 'y' {
		ax, okX := alignment(align[1:4])
		ay, okY := alignment(align[5:8])
		if okX && okY {
			out.ax, out.ay = ax, ay
		}
	}
	if len(fields) > 1 && fields[1] == "slice" {
		out.slice = true
	}
	return out
}

// imagePlacement maps the pixels of an image of iw x ih pixels
// into its viewport, `m` mapping the user space of the element to mm.
func imagePlacement(img *svgicon.SvgImage, iw, ih int, m svgicon.Matrix2D) vectorize.Placement {
	ar := parseAspectRatio(img.PreserveAspectRatio)
	fw, fh := float64(iw), float64(ih)
	sx, sy := img.W/fw, img.H/fh
	tx, ty := img.X, img.Y
	if !ar.none {
		s := min(sx, sy)
		if ar.slice {
			s = max(sx, sy)
		}
		sx, sy = s, s
		tx += (img.W - fw*s) * ar.ax
		ty += (img.H - fh*s) * ar.ay
	}
	pixToUser := svgicon.Identity.Translate(tx, ty).Scale(sx, sy)

	viewport := geom.Rectangle(img.X, img.Y, img.X+img.W, img.Y+img.H).Transform(func(p geom.Point) geom.Point {
		x, y := m.Transform(p.X, p.Y)
		return geom.Point{X: x, Y: y}
	})
	return vectorize.Placement{Matrix: m.Mult(pixToUser), Clip: geom.Region{viewport}}
}
