// Provides parsing of SVG documents into an abstract representation,
// suitable for conversion into polygons.
// SVG files are parsed into a Document, whose drawable elements
// can then be consumed by painting drivers (see Driver).
//
// Only a static subset of SVG is supported, which is the subset
// produced by normalizers such as usvg: paths and basic shapes, groups,
// gradients (reduced to their stops), and embedded raster images.
package svgicon

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor Pattern // either PlainColor or Gradient, nil for none

	transform Matrix2D // current transform
}

// Transform returns the user space to document space transform
// in effect for the element.
func (s PathStyle) Transform() Matrix2D { return s.transform }

// Element is a drawable node of a Document:
// either a *SvgPath or a *SvgImage.
type Element interface {
	// Groups returns the non empty ids of the element
	// and of its ancestors, outermost first.
	Groups() []string
}

type node struct {
	groups []string
}

func (n node) Groups() []string { return n.groups }

// SvgPath binds a style to a path
type SvgPath struct {
	node
	Path  Path
	Style PathStyle
}

// SvgImage is an embedded raster image.
type SvgImage struct {
	node

	// Viewport of the image, in user units
	X, Y, W, H float64
	// PreserveAspectRatio is the raw attribute value,
	// defaulting to "xMidYMid meet".
	PreserveAspectRatio string
	MimeType            string
	Data                []byte // decoded payload
	Opacity             float64

	transform Matrix2D
}

// Transform returns the user space to document space transform.
func (img *SvgImage) Transform() Matrix2D { return img.transform }

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// Document holds data from parsed SVGs.
type Document struct {
	ViewBox      Bounds
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here

	// Elements are stored in paint order: later elements
	// are drawn on top of earlier ones.
	Elements []Element

	Width, Height Length // top level width and height attributes

	grads map[string]*Gradient
	defs  map[string][]definition
}

// Paths returns the path elements of the document.
func (doc *Document) Paths() []*SvgPath {
	var out []*SvgPath
	for _, e := range doc.Elements {
		if p, ok := e.(*SvgPath); ok {
			out = append(out, p)
		}
	}
	return out
}

// ReadDocumentStream reads the Document from the given io.Reader.
// errMode determines if the parser ignores, errors out, or logs a warning
// when it does not handle an element found in the file.
// A nil logger discards warnings.
func ReadDocumentStream(stream io.Reader, errMode ErrorMode, logger *zap.Logger) (*Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	doc := &Document{defs: make(map[string][]definition), grads: make(map[string]*Gradient)}
	cursor := &docCursor{styleStack: []PathStyle{DefaultStyle}, doc: doc, logger: logger}
	cursor.errorMode = errMode
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenRoot := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenRoot {
					return nil, ErrNoRoot
				}
				break
			}
			return nil, fmt.Errorf("invalid svg document: %w", err)
		}
		switch se := t.(type) {
		case xml.StartElement:
			if !seenRoot {
				if se.Name.Local != "svg" {
					return nil, fmt.Errorf("%w (found <%s>)", ErrNoRoot, se.Name.Local)
				}
				seenRoot = true
			}
			if cursor.skipDepth > 0 || skippedElements[se.Name.Local] {
				cursor.skipDepth++
				continue
			}
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			if err = cursor.pushStyle(se.Attr); err != nil {
				return nil, err
			}
			cursor.pushID(se.Attr)
			if err = cursor.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if cursor.skipDepth > 0 {
				cursor.skipDepth--
				continue
			}
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			cursor.idStack = cursor.idStack[:len(cursor.idStack)-1]
			switch se.Name.Local {
			case "g":
				if cursor.inDefs {
					cursor.currentDef = append(cursor.currentDef, definition{Tag: "endg"})
				}
			case "title":
				cursor.inTitleText = false
			case "desc":
				cursor.inDescText = false
			case "defs":
				if len(cursor.currentDef) > 0 {
					doc.defs[cursor.currentDef[0].ID] = cursor.currentDef
					cursor.currentDef = nil
				}
				cursor.inDefs = false
			case "radialGradient", "linearGradient":
				cursor.inGrad = false
			}
		case xml.CharData:
			if cursor.inTitleText {
				doc.Titles[len(doc.Titles)-1] += string(se)
			}
			if cursor.inDescText {
				doc.Descriptions[len(doc.Descriptions)-1] += string(se)
			}
		}
	}
	return doc, nil
}

// ReadDocument reads the Document from the named file.
// See ReadDocumentStream.
func ReadDocument(file string, errMode ErrorMode, logger *zap.Logger) (*Document, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return ReadDocumentStream(fin, errMode, logger)
}
