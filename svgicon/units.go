package svgicon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a CSS length unit.
type Unit uint8

const (
	UnitNone Unit = iota // user units
	UnitPx
	UnitPt
	UnitPc
	UnitMm
	UnitCm
	UnitIn
	UnitEm
	UnitPercent
)

// size of each unit in user units (CSS pixels, 96 per inch)
var unitToPx = [...]float64{
	UnitNone:    1,
	UnitPx:      1,
	UnitPt:      96. / 72.,
	UnitPc:      96. / 6.,
	UnitMm:      96. / 25.4,
	UnitCm:      96. / 2.54,
	UnitIn:      96.,
	UnitEm:      16., // default font size
	UnitPercent: 1,
}

// size of each unit in mm, kept exact for physical units
var unitToMM = [...]float64{
	UnitNone:    25.4 / 96,
	UnitPx:      25.4 / 96,
	UnitPt:      25.4 / 72,
	UnitPc:      25.4 / 6,
	UnitMm:      1,
	UnitCm:      10,
	UnitIn:      25.4,
	UnitEm:      16 * 25.4 / 96,
	UnitPercent: 0,
}

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{
	{"px", UnitPx}, {"pt", UnitPt}, {"pc", UnitPc}, {"mm", UnitMm},
	{"cm", UnitCm}, {"in", UnitIn}, {"em", UnitEm}, {"%", UnitPercent},
}

// Length is a number with its unit, such as the root
// width and height attributes.
type Length struct {
	Value float64
	Unit  Unit
}

// IsZero is true for missing or null lengths.
func (l Length) IsZero() bool { return l.Value == 0 }

// Millimeters converts an absolute length. Percentages
// have no physical size and return false.
func (l Length) Millimeters() (float64, bool) {
	if l.Unit == UnitPercent {
		return 0, false
	}
	return l.Value * unitToMM[l.Unit], true
}

// ParseLength parses a number followed by an optional unit.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	unit := UnitNone
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) {
			unit = u.unit
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	v, err := parseBasicFloat(s)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	return Length{Value: v, Unit: unit}, nil
}

func parseBasicFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// parseUnit converts a length attribute into user units,
// resolving percentages against the document viewBox.
func (c *docCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	l, err := ParseLength(s)
	if err != nil {
		return 0, err
	}
	if l.Unit != UnitPercent {
		return l.Value * unitToPx[l.Unit], nil
	}
	vb := c.doc.ViewBox
	var ref float64
	switch asPerc {
	case widthPercentage:
		ref = vb.W
	case heightPercentage:
		ref = vb.H
	case diagPercentage:
		ref = math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
	}
	return l.Value / 100 * ref, nil
}

// readFraction parses a number or a percentage, as used
// by gradient attributes.
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}
