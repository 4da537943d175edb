package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/aigis-cutter/internal/batch"
	"github.com/ironsheep/aigis-cutter/internal/cutter"
	"github.com/ironsheep/aigis-cutter/internal/logging"
	"github.com/ironsheep/aigis-cutter/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("aigis-cutter %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage(os.Stdout)
			return
		case "crop":
			os.Exit(runCrop(os.Args[2:], os.Stdout, os.Stderr))
		case "serve":
			os.Exit(runServe(os.Args[2:], os.Stderr))
		default:
			usage(os.Stderr)
			os.Exit(2)
		}
	}

	// MCP clients start the binary without arguments.
	os.Exit(runServe(nil, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "aigis-cutter - auto-crop game screenshots to the game area")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  aigis-cutter crop [flags] <file|dir|glob>...   crop images into a new directory")
	fmt.Fprintln(w, "  aigis-cutter serve [flags]                     MCP server on stdin/stdout (default)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Modes: %s\n", strings.Join(cutter.Modes(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Log level when -log-level is not given\n", logging.EnvLevel)
}

// cropFlags holds the parsed "crop" command line.
type cropFlags struct {
	mode        string
	width       int
	height      int
	zoom        float64
	delta       int
	homebar     int
	workers     int
	out         string
	diagnostics bool
	heatmap     bool
	preview     bool
	logLevel    string
}

func parseCropFlags(args []string, stderr io.Writer) (*cropFlags, []string, error) {
	f := &cropFlags{}
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.mode, "mode", cutter.ModePCCount.String(), "crop strategy: "+strings.Join(cutter.Modes(), ", "))
	fs.IntVar(&f.width, "width", 0, "target width; with -height overrides -zoom")
	fs.IntVar(&f.height, "height", 0, "target height")
	fs.Float64Var(&f.zoom, "zoom", cutter.DefaultZoom, "browser zoom percent; target is 960x640 scaled by it")
	fs.IntVar(&f.delta, "delta", cutter.DefaultDelta, "luminance tolerance for the threshold scorers")
	fs.IntVar(&f.homebar, "homebar", cutter.DefaultHomebarHeight, "home-indicator height removed by ios mode")
	fs.IntVar(&f.workers, "workers", runtime.NumCPU(), "images processed in parallel")
	fs.StringVar(&f.out, "out", "", "output directory (default: AigisCutter_<timestamp> beside the first input)")
	fs.BoolVar(&f.diagnostics, "diagnostics", false, "write intermediate search buffers as PNG")
	fs.BoolVar(&f.heatmap, "heatmap", false, "render diagnostics as colour heat maps")
	fs.BoolVar(&f.preview, "preview", false, "write <name>_preview.png with the crop outlined")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default $"+logging.EnvLevel+" or info)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func (f *cropFlags) request() (cutter.Request, error) {
	mode, err := cutter.ParseMode(f.mode)
	if err != nil {
		return cutter.Request{}, err
	}
	req := cutter.Request{
		Mode:          mode,
		Width:         f.width,
		Height:        f.height,
		Delta:         f.delta,
		HomebarHeight: f.homebar,
	}.WithZoom(f.zoom)
	return req, req.Validate()
}

func runCrop(args []string, stdout, stderr io.Writer) int {
	f, paths, err := parseCropFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := logging.New(logging.ResolveLevel(f.logLevel))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer logger.Sync()

	req, err := f.request()
	if err != nil {
		logger.Error("invalid crop parameters", zap.Error(err))
		return 2
	}

	inputs, err := batch.CollectInputs(paths)
	if err != nil {
		logger.Error("no images to crop", zap.Strings("args", paths), zap.Error(err))
		return 1
	}

	outDir := f.out
	if outDir == "" {
		outDir, err = batch.PrepareOutputDir(inputs[0], time.Now())
	} else {
		err = os.MkdirAll(outDir, 0o755)
	}
	if err != nil {
		logger.Error("cannot create output directory", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("cropping",
		zap.Int("images", len(inputs)),
		zap.String("mode", req.Mode.String()),
		zap.Int("width", req.Width), zap.Int("height", req.Height),
		zap.String("output_dir", outDir))

	summary, err := batch.Run(ctx, inputs, outDir, batch.Options{
		Request:     req,
		Workers:     f.workers,
		Diagnostics: f.diagnostics,
		Heatmap:     f.heatmap,
		Preview:     f.preview,
		Logger:      logger,
	})
	if summary != nil {
		fmt.Fprintf(stdout, "%d cropped, %d failed -> %s\n", summary.Processed, summary.Failed, summary.OutputDir)
		if summary.ErrorLog != "" {
			fmt.Fprintf(stdout, "see %s\n", summary.ErrorLog)
		}
	}
	if err != nil {
		logger.Error("batch stopped", zap.Error(err))
		return 1
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "", "debug, info, warn or error (default $"+logging.EnvLevel+" or info)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := logging.New(logging.ResolveLevel(*logLevel))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer logger.Sync()

	logger.Debug("starting MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	server.Version = Version
	srv := server.New(logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}
