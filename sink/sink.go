// Implements the output backends receiving the polygons
// produced by the renderer: SVG, Gerber (RS-274X) and KiCad
// footprints, plus a flattening decorator composing overlapping
// dark and clear polygons.
package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/svgflatten/geom"
)

// Polarity tells if a polygon adds material (dark)
// or removes it from what is below (clear).
type Polarity uint8

const (
	Dark Polarity = iota
	Clear
)

func (p Polarity) String() string {
	switch p {
	case Dark:
		return "dark"
	case Clear:
		return "clear"
	default:
		return "<unknown polarity>"
	}
}

// Sink consumes geometry in millimeters, with the y axis pointing down.
// Calls are made in order: Header, then any sequence of SetPolarity
// and Polygon, then Footer. The polarity is Dark until changed.
type Sink interface {
	// Header starts the output, for a document covering
	// the rectangle at `origin` with dimensions `size`.
	Header(origin, size geom.Point) error
	SetPolarity(p Polarity) error
	// Polygon emits a simple contour, with the current polarity.
	Polygon(c geom.Contour) error
	Footer() error
}

// RegionSink is implemented by sinks able to consume regions
// with holes directly, avoiding the bridging of holes.
type RegionSink interface {
	Sink
	Region(r geom.Region) error
}

var (
	// ErrPrecision is returned for a number of decimals the format can't express.
	ErrPrecision = errors.New("unsupported precision")
	// ErrClearPolarity is returned by sinks which can only draw dark polygons.
	ErrClearPolarity = errors.New("clear polarity not supported by output format")
	// ErrUnknownFormat is returned by ParseFormat.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Options configures the terminal sinks.
type Options struct {
	// OnlyPolygons suppresses the format header and footer
	OnlyPolygons bool
	// Precision is the number of decimals of the coordinates
	Precision int

	DarkColor, ClearColor string // SVG only

	Layer      string // KiCad only, default F.SilkS
	ModuleName string // KiCad only, default svg-flatten
}

// Format is an output format.
type Format uint8

const (
	FormatGerber Format = iota
	FormatSVG
	FormatSExp
)

func (f Format) String() string {
	switch f {
	case FormatGerber:
		return "gerber"
	case FormatSVG:
		return "svg"
	case FormatSExp:
		return "s-exp"
	default:
		return "<unknown format>"
	}
}

// ParseFormat is case insensitive, and accepts the
// "gbr" and "grb" aliases for Gerber.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gerber", "gbr", "grb":
		return FormatGerber, nil
	case "svg":
		return FormatSVG, nil
	case "s-exp":
		return FormatSExp, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// NeedsFlattening is true for formats which can't express
// clear polarity, and must be used behind a Flattener.
func (f Format) NeedsFlattening() bool { return f == FormatSExp }

// New returns the sink chain writing to `w`: the terminal writer for `format`,
// wrapped in a Flattener if `flatten` is true or if the format requires it.
func New(format Format, w io.Writer, opts Options, flatten bool) (Sink, error) {
	var (
		out Sink
		err error
	)
	switch format {
	case FormatGerber:
		out, err = NewGerber(w, opts)
	case FormatSVG:
		out, err = NewSVG(w, opts)
	case FormatSExp:
		out, err = NewKicad(w, opts)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if flatten || format.NeedsFlattening() {
		out = NewFlattener(out)
	}
	return out, nil
}
