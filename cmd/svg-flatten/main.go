// Command svg-flatten converts an SVG or bitmap image into
// PCB artwork: Gerber, SVG or KiCad footprint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benoitkugler/svgflatten/pipeline"
	"github.com/benoitkugler/svgflatten/vectorize"
)

var version = "dev"

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line `args` and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(pipeline.Streams{Stdin: stdin, Stdout: stdout, Stderr: stderr})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "svg-flatten: %s\n", err)
	var cerr *pipeline.ConfigurationError
	if errors.As(err, &cerr) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	return exitFailure
}

func newRootCmd(streams pipeline.Streams) *cobra.Command {
	opts := pipeline.DefaultOptions()
	var (
		configFile string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "svg-flatten [input] [output]",
		Short: "Convert SVG and bitmap images to PCB artwork",
		Long: `svg-flatten converts an SVG or bitmap image to Gerber, SVG or KiCad
footprint polygons, for silkscreen or soldermask artwork.

Input and output default to the standard streams ("-").
SVG input is normalized with usvg before rendering. Bitmap input
needs --size and is vectorized according to --vectorizer.

Vectorizers: ` + strings.Join(vectorize.Names(), ", "),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return &pipeline.ConfigurationError{Err: fmt.Errorf("expected at most 2 positional arguments, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := pipeline.ApplyConfigFile(configFile, cmd.Flags()); err != nil {
					return err
				}
			}
			logger, err := newLogger(logLevel, streams.Stderr)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if len(args) > 0 {
				opts.Input = args[0]
			}
			if len(args) > 1 {
				opts.Output = args[1]
			}
			cfg, err := pipeline.Resolve(opts)
			if err != nil {
				return err
			}
			p := pipeline.Pipeline{Logger: logger}
			return p.Run(cmd.Context(), cfg, streams)
		},
	}
	// stdout only carries the converted output
	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stderr)
	cmd.SetErr(streams.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &pipeline.ConfigurationError{Err: err}
	})

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&opts.Format, "format", "o", opts.Format, "output format: svg, gerber or s-exp")
	fs.IntVarP(&opts.Precision, "precision", "p", opts.Precision, "number of decimals in the output")
	fs.StringVar(&opts.ClearColor, "clear-color", opts.ClearColor, "SVG color for clear polarity")
	fs.StringVar(&opts.DarkColor, "dark-color", opts.DarkColor, "SVG color for dark polarity")
	fs.Float64VarP(&opts.MinFeatureSize, "trace-space", "d", opts.MinFeatureSize, "minimum feature size of the vectorized output, in mm")
	fs.BoolVar(&opts.NoHeader, "no-header", opts.NoHeader, "only output polygons, without header and footer")
	fs.BoolVar(&opts.Flatten, "flatten", opts.Flatten, "remove overlaps, output only dark polygons")
	fs.StringVarP(&opts.OnlyGroups, "only-groups", "g", opts.OnlyGroups, "comma separated ids of the elements to render")
	fs.StringVarP(&opts.ExcludeGroups, "exclude-groups", "e", opts.ExcludeGroups, "comma separated ids of the elements to skip")
	fs.StringVarP(&opts.Vectorizer, "vectorizer", "b", opts.Vectorizer, "default vectorizer for bitmaps")
	fs.StringVar(&opts.VectorizerMap, "vectorizer-map", opts.VectorizerMap, "per element vectorizers, as id=vectorizer,...")
	fs.BoolVar(&opts.ForceSVG, "force-svg", opts.ForceSVG, "treat the input as SVG")
	fs.BoolVar(&opts.ForcePNG, "force-png", opts.ForcePNG, "treat the input as a bitmap")
	fs.StringVarP(&opts.Size, "size", "s", opts.Size, "size of a bitmap input, as WxH in mm")
	fs.StringVarP(&opts.PreserveAspectRatio, "preserve-aspect-ratio", "a", opts.PreserveAspectRatio, "bitmap placement: none, meet, slice or an SVG preserveAspectRatio value")
	fs.BoolVar(&opts.NoUsvg, "no-usvg", opts.NoUsvg, "do not normalize the input with usvg")
	fs.StringVar(&opts.UsvgPath, "usvg-path", opts.UsvgPath, "usvg executable")
	fs.StringVar(&opts.SexpLayer, "sexp-layer", opts.SexpLayer, "KiCad layer of the polygons")
	fs.StringVar(&opts.SexpModName, "sexp-mod-name", opts.SexpModName, "KiCad footprint name")
	fs.StringVar(&configFile, "config", "", "YAML file with default values, keyed by flag name")
	fs.StringVar(&logLevel, "log-level", "warn", "diagnostics level: debug, info, warn or error")
	return cmd
}

// newLogger returns a console logger writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, &pipeline.ConfigurationError{Option: "log-level", Err: err}
	}
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoder), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
