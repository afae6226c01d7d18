// Command termview decodes a JPEG or BMP image and renders it to an
// ANSI-capable terminal, optionally saving the decoded raster as a BMP.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	jpeg "github.com/mbranch/termview"
	"github.com/mbranch/termview/bmp"
	"github.com/mbranch/termview/term"
)

var (
	imageType string
	noRender  bool
	saveBMP   string
	debug     bool
	logFile   string
)

func main() {
	root := &cobra.Command{
		Use:           "termview <path>",
		Short:         "Decode a JPEG or BMP image and render it to the terminal",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVar(&imageType, "type", "", "input image type: jpeg or bmp (default: inferred from extension)")
	root.Flags().BoolVar(&noRender, "no-render", false, "skip rendering the decoded image to the terminal")
	root.Flags().StringVar(&saveBMP, "save-bmp", "", "persist the decoded raster as a BMP file at this path")
	root.Flags().BoolVar(&debug, "debug", false, "enable structured debug tracing of the decode pipeline")
	root.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file instead of stderr (rotated)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "termview:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	log := newLogger()
	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()

	kind := imageType
	if kind == "" {
		kind = inferType(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	log.Debug().Str("path", path).Str("type", kind).Msg("decoding")

	var raster *jpeg.Raster
	switch kind {
	case "jpeg":
		raster, err = jpeg.Decode(f, jpeg.WithLogger(log))
	case "bmp":
		raster, err = bmp.Decode(f)
	default:
		return errors.Errorf("unknown image type %q, want jpeg or bmp", kind)
	}
	if err != nil {
		return errors.Wrap(err, "decode")
	}

	log.Debug().Int("width", raster.Width()).Int("height", raster.Height()).Msg("decoded")

	if saveBMP != "" {
		out, err := os.Create(saveBMP)
		if err != nil {
			return errors.Wrap(err, "create bmp output")
		}
		defer out.Close()
		if err := bmp.Encode(out, raster); err != nil {
			return errors.Wrap(err, "encode bmp")
		}
	}

	if !noRender {
		if err := term.Render(os.Stdout, raster, int(os.Stdout.Fd())); err != nil {
			return errors.Wrap(err, "render")
		}
	}

	return nil
}

func newLogger() zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}

	var out = os.Stderr
	if logFile != "" {
		logger := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		return zerolog.New(logger).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func inferType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	default:
		return "jpeg"
	}
}
