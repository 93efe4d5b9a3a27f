package svgicon

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Pattern is either a PlainColor or a Gradient
type Pattern interface {
	isPattern()
}

// PlainColor is a uniform paint.
type PlainColor struct {
	color.NRGBA
}

func (PlainColor) isPattern() {}

// NewPlainColor returns a PlainColor from its non premultiplied components
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

// optionnalColor is the result of parsing a paint: `none`
// is valid but has no color.
type optionnalColor struct {
	valid bool
	color PlainColor
}

// asPattern returns nil for `none`
func (o optionnalColor) asPattern() Pattern {
	if !o.valid {
		return nil
	}
	return o.color
}

// asColor returns a transparent color for `none`
func (o optionnalColor) asColor() color.Color {
	if !o.valid {
		return color.NRGBA{}
	}
	return o.color.NRGBA
}

// parseSVGColor parses a paint specification: `none`,
// a named color, #rgb, #rrggbb, rgb() or rgba().
func parseSVGColor(colorStr string) (optionnalColor, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	switch v {
	case "none", "transparent", "":
		return optionnalColor{}, nil
	case "currentcolor":
		// normalizers resolve currentColor; default to the initial color value
		return optionnalColor{valid: true, color: NewPlainColor(0, 0, 0, 0xff)}, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return optionnalColor{valid: true, color: PlainColor{color.NRGBA(c)}}, nil
	}
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		switch len(hex) {
		case 3: // expand #rgb to #rrggbb
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		case 6:
		default:
			return optionnalColor{}, fmt.Errorf("invalid hex color %q", colorStr)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return optionnalColor{}, fmt.Errorf("invalid hex color %q", colorStr)
		}
		return optionnalColor{valid: true, color: NewPlainColor(uint8(n>>16), uint8(n>>8), uint8(n), 0xff)}, nil
	}
	if strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba(") {
		start, end := strings.Index(v, "("), strings.LastIndex(v, ")")
		if end < start {
			return optionnalColor{}, fmt.Errorf("invalid rgb color %q", colorStr)
		}
		parts := splitOnCommaOrSpace(strings.ReplaceAll(v[start+1:end], "/", " "))
		if len(parts) != 3 && len(parts) != 4 {
			return optionnalColor{}, fmt.Errorf("invalid rgb color %q", colorStr)
		}
		var comps [4]uint8
		comps[3] = 0xff
		for i, part := range parts {
			f, err := readFraction(part)
			if err != nil {
				return optionnalColor{}, fmt.Errorf("invalid rgb color %q: %w", colorStr, err)
			}
			if strings.HasSuffix(part, "%") || i == 3 {
				f *= 0xff
			}
			comps[i] = clampByte(f)
		}
		return optionnalColor{valid: true, color: NewPlainColor(comps[0], comps[1], comps[2], comps[3])}, nil
	}
	return optionnalColor{}, fmt.Errorf("invalid color %q", colorStr)
}

func clampByte(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 0xff {
		return 0xff
	}
	return uint8(f + 0.5)
}
