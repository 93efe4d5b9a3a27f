// Package pipeline sequences a conversion run: option resolution,
// staging of the input as an SVG document, external normalization,
// loading and rendering into the output sink, and cleanup.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgflatten/render"
	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/vectorize"
)

// Options are the raw settings of a run, as given by the user.
// The zero value is not usable: start from DefaultOptions.
type Options struct {
	Format         string
	Precision      int
	ClearColor     string
	DarkColor      string
	MinFeatureSize float64 // mm
	NoHeader       bool
	Flatten        bool

	OnlyGroups    string // comma separated ids
	ExcludeGroups string
	Vectorizer    string
	VectorizerMap string // id=vectorizer,...

	ForceSVG, ForcePNG  bool
	Size                string // WxH in mm, raster input only
	PreserveAspectRatio string

	NoUsvg   bool
	UsvgPath string

	SexpLayer   string
	SexpModName string

	// Input and Output are file paths; empty or "-" for
	// the standard streams.
	Input, Output string
}

// DefaultOptions returns the default settings.
func DefaultOptions() Options {
	return Options{
		Format:              "gerber",
		Precision:           6,
		ClearColor:          "#ffffff",
		DarkColor:           "#000000",
		MinFeatureSize:      0.1,
		Vectorizer:          "poisson-disc",
		PreserveAspectRatio: "none",
		UsvgPath:            "usvg",
		SexpLayer:           "F.SilkS",
		SexpModName:         "svg-flatten",
	}
}

// Config is the validated and resolved form of Options.
// It is not modified after Resolve.
type Config struct {
	Format  sink.Format
	Sink    sink.Options
	Flatten bool

	MinFeatureSize float64
	Vectorizers    render.VectorizerSelector
	Selector       render.IDSelector

	Kind       Kind
	KindForced bool
	// Width and Height are the physical size of a raster input, in mm.
	Width, Height       float64
	HasSize             bool
	PreserveAspectRatio string // full SVG syntax

	SkipNormalize bool
	Normalizer    string // executable

	Input, Output string
}

// IsStdin is true when the input is read from the standard input.
func (c Config) IsStdin() bool { return isStdStream(c.Input) }

// IsStdout is true when the output is written to the standard output.
func (c Config) IsStdout() bool { return isStdStream(c.Output) }

func isStdStream(path string) bool { return path == "" || path == "-" }

// ParseSize parses `<w>[x|*|,]<h>`, in mm, both at least 1.
func ParseSize(s string) (w, h float64, err error) {
	i := strings.IndexAny(s, "x*,")
	if i == -1 {
		return 0, 0, errors.New("expected the form 12.34x56.78")
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("invalid size %q: expected the form 12.34x56.78", s)
	}
	if !(w >= 1 && h >= 1) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must be at least 1mm", s)
	}
	return w, h, nil
}

// aspectRatioAttribute expands the meet and slice shortcuts.
func aspectRatioAttribute(s string) string {
	switch s {
	case "meet":
		return "xMidYMid meet"
	case "slice":
		return "xMidYMid slice"
	case "":
		return "none"
	}
	return s
}

// Resolve validates the options. Errors are *ConfigurationError.
func Resolve(o Options) (Config, error) {
	var cfg Config

	format, err := sink.ParseFormat(o.Format)
	if err != nil {
		return cfg, &ConfigurationError{Option: "format", Err: err}
	}
	cfg.Format = format
	cfg.Flatten = o.Flatten || format.NeedsFlattening()
	cfg.Sink = sink.Options{
		OnlyPolygons: o.NoHeader,
		Precision:    o.Precision,
		DarkColor:    o.DarkColor,
		ClearColor:   o.ClearColor,
		Layer:        o.SexpLayer,
		ModuleName:   o.SexpModName,
	}

	if !(o.MinFeatureSize > 0) || math.IsInf(o.MinFeatureSize, 0) {
		return cfg, configError("trace-space", "minimum feature size must be positive, got %g", o.MinFeatureSize)
	}
	cfg.MinFeatureSize = o.MinFeatureSize

	if _, err := vectorize.New(o.Vectorizer); err != nil {
		return cfg, &ConfigurationError{Option: "vectorizer", Err: err}
	}
	overrides, err := render.ParseVectorizerMap(o.VectorizerMap)
	if err != nil {
		return cfg, &ConfigurationError{Option: "vectorizer-map", Err: err}
	}
	cfg.Vectorizers = render.VectorizerSelector{Default: strings.TrimSpace(o.Vectorizer), Overrides: overrides}
	cfg.Selector = render.NewIDSelector(render.ParseIDList(o.OnlyGroups), render.ParseIDList(o.ExcludeGroups))

	if o.ForceSVG && o.ForcePNG {
		return cfg, configError("force-svg", "--force-svg and --force-png are mutually exclusive")
	}
	cfg.Input, cfg.Output = o.Input, o.Output
	cfg.Kind = DetectKind(o.Input, o.ForceSVG, o.ForcePNG)
	cfg.KindForced = o.ForceSVG || o.ForcePNG

	if o.Size != "" {
		if cfg.Width, cfg.Height, err = ParseSize(o.Size); err != nil {
			return cfg, &ConfigurationError{Option: "size", Err: err}
		}
		cfg.HasSize = true
	}
	if cfg.Kind == KindRaster && !cfg.HasSize {
		return cfg, configError("size", "--size must be given when using bitmap input")
	}
	cfg.PreserveAspectRatio = aspectRatioAttribute(strings.TrimSpace(o.PreserveAspectRatio))

	cfg.SkipNormalize = o.NoUsvg
	cfg.Normalizer = o.UsvgPath
	if cfg.Normalizer == "" {
		cfg.Normalizer = "usvg"
	}
	return cfg, nil
}
