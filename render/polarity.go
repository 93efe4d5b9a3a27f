package render

import (
	"image/color"

	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/svgicon"
)

// paintPolarity maps a paint to dark (luminance below one half)
// or clear. The boolean is false when nothing is painted.
// Gradients are reduced to their mean color.
func paintPolarity(paint svgicon.Pattern, opacity float64) (sink.Polarity, bool) {
	var c color.NRGBA
	switch paint := paint.(type) {
	case svgicon.PlainColor:
		c = paint.NRGBA
	case svgicon.Gradient:
		c = paint.MeanColor()
	default:
		return 0, false
	}
	if c.A == 0 || opacity <= 0 {
		return 0, false
	}
	gray := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray)
	if gray.Y < 0x80 {
		return sink.Dark, true
	}
	return sink.Clear, true
}
