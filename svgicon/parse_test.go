package svgicon

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func parseDoc(t *testing.T, path string) *Document {
	t.Helper()
	doc, err := ReadDocument(path, StrictErrorMode, nil)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestShapesFixture(t *testing.T) {
	doc := parseDoc(t, "testdata/shapes.svg")

	if doc.ViewBox != (Bounds{0, 0, 40, 20}) {
		t.Errorf("unexpected viewBox %v", doc.ViewBox)
	}
	if w, _ := doc.Width.Millimeters(); math.Abs(w-40) > 1e-9 {
		t.Errorf("expected width 40mm, got %v", w)
	}
	if len(doc.Titles) != 1 || doc.Titles[0] != "shapes" {
		t.Errorf("unexpected titles %v", doc.Titles)
	}
	if len(doc.Elements) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(doc.Elements))
	}

	expectedGroups := [][]string{
		{"outline"}, {"fills", "tri"}, {"fills"}, {"fills"}, {"fills", "dot"}, nil,
	}
	for i, e := range doc.Elements {
		if !reflect.DeepEqual(e.Groups(), expectedGroups[i]) {
			t.Errorf("element %d: expected groups %v, got %v", i, expectedGroups[i], e.Groups())
		}
	}

	rect := doc.Elements[0].(*SvgPath)
	if rect.Style.FillerColor != nil || rect.Style.LinerColor == nil || rect.Style.LineWidth != 0.5 {
		t.Errorf("unexpected outline style %+v", rect.Style)
	}

	tri := doc.Elements[1].(*SvgPath)
	grad, ok := tri.Style.FillerColor.(Gradient)
	if !ok || len(grad.Stops) != 2 {
		t.Fatalf("expected gradient fill with 2 stops, got %v", tri.Style.FillerColor)
	}
	if mean := grad.MeanColor(); mean.R != 64 || mean.A != 0xff {
		t.Errorf("unexpected mean color %v", mean)
	}

	if doc.Elements[2].(*SvgPath).Style.UseNonZeroWinding {
		t.Error("expected evenodd rule")
	}

	dot := doc.Elements[4].(*SvgPath)
	if x, y := dot.Style.Transform().Transform(0, 0); x != 35 || y != 15 {
		t.Errorf("use offset not applied: %v %v", x, y)
	}

	line := doc.Elements[5].(*SvgPath)
	if !reflect.DeepEqual(line.Style.Dash.Dash, []float64{2, 1}) {
		t.Errorf("unexpected dashes %v", line.Style.Dash.Dash)
	}
}

func TestCharset(t *testing.T) {
	doc := parseDoc(t, "testdata/iso-8859-1.svg")
	if len(doc.Descriptions) != 1 || doc.Descriptions[0] != "café" {
		t.Errorf("unexpected description %q", doc.Descriptions)
	}
	if doc.ViewBox.W != 10 || doc.ViewBox.H != 10 {
		t.Errorf("viewBox should default to width and height, got %v", doc.ViewBox)
	}
}

func TestNoRoot(t *testing.T) {
	for _, input := range []string{"", "<html></html>", "  "} {
		_, err := ReadDocumentStream(strings.NewReader(input), IgnoreErrorMode, nil)
		if !errors.Is(err, ErrNoRoot) {
			t.Errorf("%q: expected ErrNoRoot, got %v", input, err)
		}
	}
	if _, err := ReadDocumentStream(strings.NewReader("<svg><rect"), IgnoreErrorMode, nil); err == nil {
		t.Error("expected error on truncated input")
	}
}

func TestErrorModes(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg"><text>hello</text><rect width="1" height="1"/></svg>`
	if _, err := ReadDocumentStream(strings.NewReader(src), StrictErrorMode, nil); err == nil {
		t.Error("expected error in strict mode")
	}
	doc, err := ReadDocumentStream(strings.NewReader(src), WarnErrorMode, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Paths()) != 1 {
		t.Errorf("expected the rect to be parsed, got %d paths", len(doc.Paths()))
	}
}

func TestImage(t *testing.T) {
	// 1x1 transparent gif
	const src = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="10mm" height="10mm" viewBox="0 0 10 10">
	<g id="logo"><image id="pic" x="1" y="2" width="5" height="6" preserveAspectRatio="xMidYMid slice"
		xlink:href="data:image/gif;base64,R0lGODlhAQABAAAAACH5BAEKAAEALAAAAAABAAEAAAICTAEAOw=="/></g>
	<image width="5" height="5" href="logo.png"/>
	</svg>`
	doc, err := ReadDocumentStream(strings.NewReader(src), WarnErrorMode, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 1 {
		t.Fatalf("expected one image, got %d elements", len(doc.Elements))
	}
	img := doc.Elements[0].(*SvgImage)
	if img.X != 1 || img.Y != 2 || img.W != 5 || img.H != 6 {
		t.Errorf("unexpected viewport %v %v %v %v", img.X, img.Y, img.W, img.H)
	}
	if img.MimeType != "image/gif" || len(img.Data) == 0 {
		t.Errorf("unexpected payload %s (%d bytes)", img.MimeType, len(img.Data))
	}
	if img.PreserveAspectRatio != "xMidYMid slice" {
		t.Errorf("unexpected aspect ratio %q", img.PreserveAspectRatio)
	}
	if !reflect.DeepEqual(img.Groups(), []string{"logo", "pic"}) {
		t.Errorf("unexpected groups %v", img.Groups())
	}
}

func TestParseLength(t *testing.T) {
	for _, test := range []struct {
		in string
		mm float64
	}{
		{"10mm", 10},
		{"1in", 25.4},
		{"2.54cm", 25.4},
		{"96", 25.4},
		{"72pt", 25.4},
		{" 5 mm ", 5},
	} {
		l, err := ParseLength(test.in)
		if err != nil {
			t.Fatal(err)
		}
		if mm, ok := l.Millimeters(); !ok || math.Abs(mm-test.mm) > 1e-9 {
			t.Errorf("%s: expected %v mm, got %v", test.in, test.mm, mm)
		}
	}
	// physical units are not converted through pixels
	for in, exact := range map[string]float64{"10mm": 10, "3.5mm": 3.5, "2cm": 20, "1in": 25.4} {
		l, _ := ParseLength(in)
		if mm, _ := l.Millimeters(); mm != exact {
			t.Errorf("%s: expected exactly %v mm, got %v", in, exact, mm)
		}
	}
	if l, _ := ParseLength("50%"); l.Unit != UnitPercent {
		t.Error("expected percent unit")
	}
	if _, err := ParseLength("abc"); err == nil {
		t.Error("expected error")
	}
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in    string
		valid bool
		c     PlainColor
	}{
		{"none", false, PlainColor{}},
		{"#fff", true, NewPlainColor(255, 255, 255, 255)},
		{"#102030", true, NewPlainColor(0x10, 0x20, 0x30, 255)},
		{"rgb(255, 0, 0)", true, NewPlainColor(255, 0, 0, 255)},
		{"rgb(100%,0%,0%)", true, NewPlainColor(255, 0, 0, 255)},
		{"rgba(0,0,255,0.5)", true, NewPlainColor(0, 0, 255, 128)},
		{"White", true, NewPlainColor(255, 255, 255, 255)},
	} {
		got, err := parseSVGColor(test.in)
		if err != nil {
			t.Fatalf("%s: %s", test.in, err)
		}
		if got.valid != test.valid || (test.valid && got.color != test.c) {
			t.Errorf("%s: expected %v, got %v", test.in, test.c, got.color)
		}
	}
	for _, in := range []string{"#12", "rgb(1,2)", "notacolor"} {
		if _, err := parseSVGColor(in); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}
}
