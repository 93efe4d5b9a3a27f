package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgflatten/render"
	"github.com/benoitkugler/svgflatten/sink"
	"github.com/benoitkugler/svgflatten/svgicon"
)

// Streams are the standard streams of a run.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer // diagnostics and normalizer output
}

// Pipeline runs conversions. The zero value is usable.
type Pipeline struct {
	// Logger is optional.
	Logger *zap.Logger
	// Normalizer defaults to an ExternalNormalizer calling Config.Normalizer.
	Normalizer Normalizer
	// TempDir is where staged files are created, the system
	// temporary directory if empty.
	TempDir string
}

// run holds the state of one conversion.
type run struct {
	cfg     Config
	streams Streams
	logger  *zap.Logger
	area    *Area
}

func (r *run) stage(s Stage) { r.logger.Debug("entering stage", zap.String("stage", string(s))) }

// Run converts cfg.Input to cfg.Output. On failure, the returned error
// is a *StageError and no output file is left behind. Staged files are
// always removed. `ctx` is checked between stages.
func (p *Pipeline) Run(ctx context.Context, cfg Config, streams Streams) (err error) {
	if streams.Stderr == nil {
		streams.Stderr = io.Discard
	}
	id := uuid.NewString()[:8]
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run", id))
	r := &run{cfg: cfg, streams: streams, logger: logger, area: NewArea(p.TempDir, "svg-flatten-"+id, logger)}

	r.stage(StageParsingArgs)
	// the precision range is only known by the sink
	if _, err := sink.New(cfg.Format, io.Discard, cfg.Sink, cfg.Flatten); err != nil {
		return &StageError{Stage: StageParsingArgs, Err: &ConfigurationError{Option: "precision", Err: err}}
	}

	defer func() {
		r.stage(StageCleanup)
		cerr := r.area.Cleanup()
		if cerr == nil {
			return
		}
		if err != nil {
			logger.Warn("cleaning up after failure", zap.Error(cerr))
			return
		}
		err = &StageError{Stage: StageCleanup, Err: cerr}
	}()

	normalized, err := r.prepare(ctx, p.normalizer(cfg, streams.Stderr, logger))
	if err != nil {
		return err
	}

	if err := checkpoint(ctx, StageLoading); err != nil {
		return err
	}
	r.stage(StageLoading)
	doc, err := svgicon.ReadDocument(normalized.Path, svgicon.WarnErrorMode, logger)
	if err != nil {
		return &StageError{Stage: StageLoading, Err: &DocumentLoadError{Path: normalized.Path, Err: err}}
	}

	if err := checkpoint(ctx, StageRendering); err != nil {
		return err
	}
	r.stage(StageRendering)
	return r.render(doc)
}

func (p *Pipeline) normalizer(cfg Config, stderr io.Writer, logger *zap.Logger) Normalizer {
	if p.Normalizer != nil {
		return p.Normalizer
	}
	return ExternalNormalizer{Tool: cfg.Normalizer, Stderr: stderr, Logger: logger}
}

func checkpoint(ctx context.Context, next Stage) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: next, Err: err}
	}
	return nil
}

// prepare stages the input as an SVG document and normalizes it,
// returning the slot to load.
func (r *run) prepare(ctx context.Context, norm Normalizer) (*Slot, error) {
	r.stage(StageStaging)
	in, closeIn, err := r.openInput()
	if err != nil {
		return nil, &StageError{Stage: StageStaging, Err: err}
	}
	defer closeIn()

	src, f, err := r.area.Create(".svg")
	if err != nil {
		return nil, &StageError{Stage: StageStaging, Err: err}
	}
	if r.cfg.Kind == KindVector {
		err = CopyVector(f, in)
	} else {
		err = WriteRasterEnvelope(f, in, r.cfg.Width, r.cfg.Height, r.cfg.PreserveAspectRatio)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, &StageError{Stage: StageStaging, Err: &IOError{Op: "staging input", Path: src.Path, Err: err}}
	}
	r.logger.Debug("input staged", zap.Stringer("kind", r.cfg.Kind), zap.String("path", src.Path))

	if r.cfg.SkipNormalize {
		return src, nil
	}
	if err := checkpoint(ctx, StageNormalizing); err != nil {
		return nil, err
	}
	r.stage(StageNormalizing)
	dst, err := r.area.Reserve(".svg")
	if err != nil {
		return nil, &StageError{Stage: StageNormalizing, Err: err}
	}
	if err := norm.Normalize(src.Path, dst.Path); err != nil {
		return nil, &StageError{Stage: StageNormalizing, Err: err}
	}
	return dst, nil
}

func (r *run) openInput() (io.Reader, func(), error) {
	if r.cfg.IsStdin() {
		if r.streams.Stdin == nil {
			return nil, nil, &IOError{Op: "reading", Path: "<stdin>", Err: os.ErrInvalid}
		}
		return r.streams.Stdin, func() {}, nil
	}
	f, err := os.Open(r.cfg.Input)
	if err != nil {
		return nil, nil, &IOError{Op: "opening input", Path: r.cfg.Input, Err: err}
	}
	return f, func() { f.Close() }, nil
}

// render writes the output, staged next to its destination
// and renamed into place on success.
func (r *run) render(doc *svgicon.Document) error {
	settings := render.Settings{
		MinFeatureSize: r.cfg.MinFeatureSize,
		Vectorizers:    r.cfg.Vectorizers,
		Logger:         r.logger,
	}
	fail := func(err error) error {
		return &StageError{Stage: StageRendering, Err: err}
	}

	if r.cfg.IsStdout() {
		out, err := sink.New(r.cfg.Format, r.streams.Stdout, r.cfg.Sink, r.cfg.Flatten)
		if err != nil {
			return fail(&ConfigurationError{Option: "precision", Err: err})
		}
		if err := render.Render(doc, settings, out, r.cfg.Selector); err != nil {
			return fail(&RenderError{Err: err})
		}
		return nil
	}

	dest := r.cfg.Output
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fail(&IOError{Op: "creating output", Path: dest, Err: err})
	}
	committed := false
	defer func() {
		if !committed {
			f.Close()
			if rerr := os.Remove(f.Name()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				r.logger.Warn("removing partial output", zap.String("path", f.Name()), zap.Error(rerr))
			}
		}
	}()

	out, err := sink.New(r.cfg.Format, f, r.cfg.Sink, r.cfg.Flatten)
	if err != nil {
		return fail(&ConfigurationError{Option: "precision", Err: err})
	}
	if err := render.Render(doc, settings, out, r.cfg.Selector); err != nil {
		return fail(&RenderError{Err: err})
	}
	if err := f.Chmod(0o644); err != nil {
		return fail(&IOError{Op: "writing output", Path: f.Name(), Err: err})
	}
	if err := f.Close(); err != nil {
		return fail(&IOError{Op: "writing output", Path: f.Name(), Err: err})
	}
	if err := os.Rename(f.Name(), dest); err != nil {
		return fail(&IOError{Op: "renaming output", Path: dest, Err: err})
	}
	committed = true
	r.logger.Debug("output written", zap.String("path", dest))
	return nil
}
