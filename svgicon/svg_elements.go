package svgicon

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	drawFuncs["use"] = useF
}

type svgFunc func(c *docCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              gF,
	"a":              gF,
	"switch":         gF,
	"line":           lineF,
	"stop":           stopF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        circleF, //circleF handles ellipse also
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"image":          imageF,
	"desc":           descF,
	"defs":           defsF,
	"title":          titleF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
}

func svgF(c *docCursor, attrs []xml.Attr) error {
	if c.seenSVG {
		return c.handleError("nested svg element, treated as a group")
	}
	c.seenSVG = true
	doc := c.doc
	doc.ViewBox = Bounds{}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			err = c.getPoints(attr.Value)
			if len(c.points) != 4 {
				return errParamMismatch
			}
			doc.ViewBox = Bounds{X: c.points[0], Y: c.points[1], W: c.points[2], H: c.points[3]}
		case "width":
			doc.Width, err = ParseLength(attr.Value)
		case "height":
			doc.Height, err = ParseLength(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	if doc.ViewBox.W == 0 && doc.Width.Unit != UnitPercent {
		doc.ViewBox.W = doc.Width.Value * unitToPx[doc.Width.Unit]
	}
	if doc.ViewBox.H == 0 && doc.Height.Unit != UnitPercent {
		doc.ViewBox.H = doc.Height.Value * unitToPx[doc.Height.Unit]
	}
	return nil
}

func gF(*docCursor, []xml.Attr) error { return nil } // g does nothing but push the style

func rectF(c *docCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	c.path.addRoundRect(x, y, w+x, h+y, rx, ry)
	return nil
}

func circleF(c *docCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil
	}
	c.path.addEllipse(cx, cy, rx, ry)
	return nil
}

func lineF(c *docCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.Start(Point{x1, y1})
	c.path.Line(Point{x2, y2})
	return nil
}

func polylineF(c *docCursor, attrs []xml.Attr) error {
	var err error
	c.points = c.points[:0]
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
		if err != nil {
			return err
		}
	}
	if len(c.points) >= 4 {
		c.path.Start(Point{c.points[0], c.points[1]})
		for i := 2; i < len(c.points)-1; i += 2 {
			c.path.Line(Point{c.points[i], c.points[i+1]})
		}
	}
	return nil
}

func polygonF(c *docCursor, attrs []xml.Attr) error {
	err := polylineF(c, attrs)
	if len(c.points) >= 4 {
		c.path.Stop(true)
	}
	return err
}

func pathF(c *docCursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			err = c.compilePath(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// imageF reads an embedded raster image. Only data URIs are supported.
func imageF(c *docCursor, attrs []xml.Attr) error {
	img := &SvgImage{PreserveAspectRatio: "xMidYMid meet"}
	var (
		href string
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			img.X, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			img.Y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			img.W, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			img.H, err = c.parseUnit(attr.Value, heightPercentage)
		case "preserveAspectRatio":
			img.PreserveAspectRatio = strings.TrimSpace(attr.Value)
		case "href":
			href = strings.TrimSpace(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	if img.W <= 0 || img.H <= 0 {
		return nil
	}
	img.MimeType, img.Data, err = decodeDataURI(href)
	if err != nil {
		return c.handleError("image: %s", err)
	}
	style := c.styleStack[len(c.styleStack)-1]
	img.Opacity = style.FillOpacity
	img.transform = style.transform
	img.node = node{groups: c.groups()}
	c.doc.Elements = append(c.doc.Elements, img)
	return nil
}

// decodeDataURI decodes `data:[<mime>][;base64],<payload>`
func decodeDataURI(href string) (mime string, data []byte, err error) {
	if !strings.HasPrefix(href, "data:") {
		if href == "" {
			return "", nil, errors.New("missing href")
		}
		return "", nil, fmt.Errorf("external reference %q not supported", href)
	}
	comma := strings.IndexByte(href, ',')
	if comma == -1 {
		return "", nil, errors.New("malformed data URI")
	}
	header, payload := href[len("data:"):comma], href[comma+1:]
	isBase64 := strings.HasSuffix(header, ";base64")
	mime = strings.TrimSuffix(header, ";base64")
	if !isBase64 {
		return mime, []byte(payload), nil
	}
	payload = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mime, data, nil
}

func descF(c *docCursor, attrs []xml.Attr) error {
	c.inDescText = true
	c.doc.Descriptions = append(c.doc.Descriptions, "")
	return nil
}

func titleF(c *docCursor, attrs []xml.Attr) error {
	c.inTitleText = true
	c.doc.Titles = append(c.doc.Titles, "")
	return nil
}

func defsF(c *docCursor, attrs []xml.Attr) error {
	c.inDefs = true
	return nil
}

func linearGradientF(c *docCursor, attrs []xml.Attr) error {
	var err error
	c.inGrad = true
	direction := Linear{0, 0, 1, 0}
	c.grad = &Gradient{Direction: direction, Bounds: c.doc.ViewBox, Matrix: Identity}
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			if attr.Value == "" {
				return errZeroLengthID
			}
			c.doc.grads[attr.Value] = c.grad
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *docCursor, attrs []xml.Attr) error {
	c.inGrad = true
	direction := Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	c.grad = &Gradient{Direction: direction, Bounds: c.doc.ViewBox, Matrix: Identity}
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			if attr.Value == "" {
				return errZeroLengthID
			}
			c.doc.grads[attr.Value] = c.grad
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func stopF(c *docCursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	var err error
	stop := GradStop{Opacity: 1.0, StopColor: DefaultStyle.FillerColor.(PlainColor).NRGBA}
	// stop properties may also come from the style attribute
	for _, attr := range expandStyle(attrs) {
		switch attr.Name.Local {
		case "offset":
			stop.Offset, err = readFraction(attr.Value)
		case "stop-color":
			var optColor optionnalColor
			optColor, err = parseSVGColor(attr.Value)
			stop.StopColor = optColor.asColor()
		case "stop-opacity":
			stop.Opacity, err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

// expandStyle returns the attributes with the declarations
// of the style attribute appended as pseudo attributes.
func expandStyle(attrs []xml.Attr) []xml.Attr {
	out := append([]xml.Attr(nil), attrs...)
	for _, attr := range attrs {
		if attr.Name.Local != "style" {
			continue
		}
		for _, decl := range strings.Split(attr.Value, ";") {
			kv := strings.SplitN(decl, ":", 2)
			if len(kv) == 2 {
				out = append(out, xml.Attr{
					Name:  xml.Name{Local: strings.TrimSpace(kv[0])},
					Value: strings.TrimSpace(kv[1]),
				})
			}
		}
	}
	return out
}

func useF(c *docCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if href == "" {
		return c.handleError("only use tags with href are supported")
	}
	if !strings.HasPrefix(href, "#") {
		return c.handleError("only the ID CSS selector is supported in use tags")
	}
	defs, ok := c.doc.defs[href[1:]]
	if !ok {
		return c.handleError("use: id %s was not found in saved defs", href)
	}
	top := len(c.styleStack) - 1
	c.styleStack[top].transform = c.styleStack[top].transform.Translate(x, y)

	depth := 0 // opened groups
	for _, def := range defs {
		if def.Tag == "endg" {
			if depth > 0 {
				c.styleStack = c.styleStack[:len(c.styleStack)-1]
				c.idStack = c.idStack[:len(c.idStack)-1]
				depth--
			}
			continue
		}
		if err = c.pushStyle(def.Attrs); err != nil {
			return err
		}
		c.pushID(def.Attrs)
		df, ok := drawFuncs[def.Tag]
		if !ok {
			err = c.handleError("cannot process svg element %s", def.Tag)
		} else {
			err = df(c, def.Attrs)
			c.flushPath()
		}
		if err != nil {
			return err
		}
		if def.Tag == "g" {
			depth++
			continue
		}
		c.styleStack = c.styleStack[:len(c.styleStack)-1]
		c.idStack = c.idStack[:len(c.idStack)-1]
	}
	// unbalanced groups
	for ; depth > 0; depth-- {
		c.styleStack = c.styleStack[:len(c.styleStack)-1]
		c.idStack = c.idStack[:len(c.idStack)-1]
	}
	return nil
}
