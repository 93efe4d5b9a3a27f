package svgicon

import (
	"encoding/xml"
	"math"
	"strings"

	"go.uber.org/zap"
)

type (
	// docCursor is used while parsing SVG files
	docCursor struct {
		pathCursor
		doc        *Document
		styleStack []PathStyle
		idStack    []string
		grad       *Gradient
		errorMode  ErrorMode
		logger     *zap.Logger

		inTitleText, inDescText, inGrad, inDefs bool
		currentDef                              []definition

		skipDepth int // > 0 inside an unsupported subtree
		seenSVG   bool
	}

	// definition is used to store what's given in a def tag
	definition struct {
		ID, Tag string
		Attrs   []xml.Attr
	}
)

// skippedElements are containers whose content is never painted
// directly. Their whole subtree is ignored.
var skippedElements = map[string]bool{
	"clipPath": true,
	"mask":     true,
	"pattern":  true,
	"marker":   true,
	"symbol":   true,
	"metadata": true,
	"style":    true,
	"script":   true,
	"filter":   true,
}

// DefaultStyle holds the initial values of the SVG properties:
// black fill with the nonzero rule, no stroke of width 1,
// miter joins with limit 4 and butt caps.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit: 4,
		LineJoin:   Miter,
		LineCap:    ButtCap,
	},
	FillerColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	transform:   Identity,
}

func (c *docCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform applies the transform list `v` on top of `m1`
func (c *docCursor) parseTransform(v string, m1 Matrix2D) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	for _, t := range ts {
		t = strings.TrimSpace(strings.TrimLeft(t, ", \t\n"))
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func parseCap(v string) (CapMode, bool) {
	switch v {
	case "butt":
		return ButtCap, true
	case "round":
		return RoundCap, true
	case "square":
		return SquareCap, true
	}
	return NilCap, false
}

func (c *docCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		gradient, ok := c.readGradURL(v, curStyle.FillerColor)
		if ok {
			curStyle.FillerColor = gradient
			break
		}
		optCol, err := parseSVGColor(v)
		if err != nil {
			return c.handleError("%s", err)
		}
		curStyle.FillerColor = optCol.asPattern()
	case "stroke":
		gradient, ok := c.readGradURL(v, curStyle.LinerColor)
		if ok {
			curStyle.LinerColor = gradient
			break
		}
		optCol, err := parseSVGColor(v)
		if err != nil {
			return c.handleError("%s", err)
		}
		curStyle.LinerColor = optCol.asPattern()
	case "fill-rule":
		switch v {
		case "evenodd":
			curStyle.UseNonZeroWinding = false
		case "nonzero":
			curStyle.UseNonZeroWinding = true
		}
	case "stroke-linecap":
		if cp, ok := parseCap(v); ok {
			curStyle.Join.LineCap = cp
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join.LineJoin = Miter
		case "miter-clip":
			curStyle.Join.LineJoin = MiterClip
		case "arc-clip":
			curStyle.Join.LineJoin = ArcClip
		case "round":
			curStyle.Join.LineJoin = Round
		case "arc":
			curStyle.Join.LineJoin = Arc
		case "bevel":
			curStyle.Join.LineJoin = Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.Join.MiterLimit = mLimit
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := c.parseUnit(dstr, diagPercentage)
			if err != nil {
				return err
			}
			dList[i] = d
		}
		curStyle.Dash.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(v, curStyle.transform)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}

// pushStyle parses the style element, and push it on the style stack.
// Note that this parses both the contents of a style attribute plus
// direct presentation attributes, the style attribute taking precedence.
func (c *docCursor) pushStyle(attrs []xml.Attr) error {
	var pairs, stylePairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			stylePairs = append(stylePairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	pairs = append(pairs, stylePairs...)
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	for _, pair := range pairs {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v := strings.TrimSpace(kv[1])
			if err := c.readStyleAttr(&curStyle, k, v); err != nil {
				return err
			}
		}
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

// pushID records the id of the element, empty if absent.
func (c *docCursor) pushID(attrs []xml.Attr) {
	id := ""
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			id = strings.TrimSpace(attr.Value)
		}
	}
	c.idStack = append(c.idStack, id)
}

// groups returns the non empty ids of the current element and its ancestors
func (c *docCursor) groups() []string {
	var out []string
	for _, id := range c.idStack {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
}

func (c *docCursor) readStartElement(se xml.StartElement) (err error) {
	var skipDef bool
	if se.Name.Local == "radialGradient" || se.Name.Local == "linearGradient" || c.inGrad {
		skipDef = true
	}
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.doc.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = nil
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.handleError("cannot process svg element %s", se.Name.Local)
	}
	if err = df(c, se.Attr); err != nil {
		return err
	}
	c.flushPath()
	return nil
}

// flushPath stores the path parsed from the current element, if any
func (c *docCursor) flushPath() {
	if len(c.path) == 0 {
		return
	}
	pathCopy := append(Path{}, c.path...)
	c.doc.Elements = append(c.doc.Elements, &SvgPath{
		node:  node{groups: c.groups()},
		Path:  pathCopy,
		Style: c.styleStack[len(c.styleStack)-1],
	})
	c.path = c.path[:0]
}
