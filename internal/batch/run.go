package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/aigis-cutter/internal/cutter"
	"github.com/ironsheep/aigis-cutter/internal/imaging"
	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// ErrorLogName is the file written to the output directory when at least
// one image fails.
const ErrorLogName = "error.txt"

// Options configures a batch run.
type Options struct {
	Request cutter.Request
	Weights luma.Weights

	// Workers bounds the number of images processed at once. Zero or less
	// means runtime.NumCPU().
	Workers int

	// Diagnostics writes the intermediate search buffers next to each
	// output. Heatmap renders them in colour instead of grayscale.
	Diagnostics bool
	Heatmap     bool

	// Preview writes "<base>_preview.png" with the crop outlined.
	Preview bool

	Logger *zap.Logger
}

// Result describes one processed input.
type Result struct {
	Input  string      `json:"input"`
	Output string      `json:"output,omitempty"`
	Rect   cutter.Rect `json:"rect"`
	Err    error       `json:"-"`
}

// Summary reports what a run did. Results follow the input order; inputs
// not reached because of cancellation are absent.
type Summary struct {
	OutputDir string
	Results   []Result
	Processed int
	Failed    int

	// ErrorLog is the path of error.txt, empty when nothing failed.
	ErrorLog string

	// Err combines every per-image error.
	Err error
}

// Run crops every input into outDir. Per-image failures never stop the
// run: they are logged, collected into Summary.Err and written one per line
// to error.txt. The context is checked between images; a cancelled run
// returns what was finished together with ctx.Err().
func Run(ctx context.Context, inputs []string, outDir string, opts Options) (*Summary, error) {
	if err := opts.Request.Validate(); err != nil {
		return nil, err
	}
	if opts.Weights == (luma.Weights{}) {
		opts.Weights = luma.DefaultWeights()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outputs := assignOutputs(inputs, outDir)
	results := make([]Result, len(inputs))
	done := make([]bool, len(inputs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processJob(inputs[i], outputs[i], outDir, opts, logger)
				done[i] = true
			}
		}()
	}

feed:
	for i := range inputs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{OutputDir: outDir}
	var lines []string
	for i, r := range results {
		if !done[i] {
			continue
		}
		summary.Results = append(summary.Results, r)
		if r.Err != nil {
			summary.Failed++
			summary.Err = multierr.Append(summary.Err, fmt.Errorf("%s: %w", r.Input, r.Err))
			lines = append(lines, errorLine(r.Input, r.Err))
			continue
		}
		summary.Processed++
	}

	logger.Info("batch finished",
		zap.String("output_dir", outDir),
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))

	var err error
	if len(lines) > 0 {
		summary.ErrorLog = filepath.Join(outDir, ErrorLogName)
		if werr := writeErrorLog(summary.ErrorLog, lines); werr != nil {
			summary.ErrorLog = ""
			err = werr
		}
	}
	if ctx.Err() != nil {
		err = multierr.Append(err, ctx.Err())
	}
	return summary, err
}

// assignOutputs reserves "<basename>.png" per input in input order. A name
// already taken by an earlier input is left empty and reported as a failure
// when processed.
func assignOutputs(inputs []string, outDir string) []string {
	taken := make(map[string]bool, len(inputs))
	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		name := outputName(in)
		key := strings.ToLower(name)
		if taken[key] {
			continue
		}
		taken[key] = true
		outputs[i] = filepath.Join(outDir, name)
	}
	return outputs
}

func processJob(input, output, outDir string, opts Options, logger *zap.Logger) Result {
	res := Result{Input: input, Output: output}
	if output == "" {
		res.Err = fmt.Errorf("output %s already used by another input", outputName(input))
	} else {
		res.Rect, res.Err = ProcessFile(input, output, outDir, opts)
	}

	if res.Err != nil {
		res.Output = ""
		logger.Warn("crop failed", zap.String("input", input), zap.Error(res.Err))
		return res
	}
	logger.Debug("cropped",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("x", res.Rect.X), zap.Int("y", res.Rect.Y),
		zap.Int("width", res.Rect.Width), zap.Int("height", res.Rect.Height))
	return res
}

// ProcessFile crops one image to output and copies the source timestamps.
// Diagnostics and previews, when enabled, go to diagDir.
func ProcessFile(input, output, diagDir string, opts Options) (cutter.Rect, error) {
	img, err := imaging.Open(input)
	if err != nil {
		return cutter.Rect{}, err
	}

	var copts []cutter.Option
	var dw *imaging.DiagnosticsWriter
	if opts.Diagnostics && opts.Request.Mode.NeedsPixels() {
		base := strings.TrimSuffix(filepath.Base(output), ".png")
		dw = &imaging.DiagnosticsWriter{Dir: diagDir, Base: base, Heatmap: opts.Heatmap}
		copts = append(copts, cutter.WithDiagnostics(dw.Write))
	}

	rect, err := Locate(img, opts.Request, opts.Weights, copts...)
	if err != nil {
		return cutter.Rect{}, err
	}
	if dw != nil && dw.Err() != nil && opts.Logger != nil {
		opts.Logger.Warn("diagnostics incomplete", zap.String("input", input), zap.Error(dw.Err()))
	}

	cropped, err := imaging.Extract(img, rect)
	if err != nil {
		return cutter.Rect{}, err
	}
	if err := imaging.SavePNG(cropped, output); err != nil {
		return cutter.Rect{}, err
	}
	if err := imaging.CopyTimestamps(input, output); err != nil {
		return cutter.Rect{}, err
	}

	if opts.Preview {
		preview, err := imaging.PreviewImage(img, rect, "")
		if err != nil {
			return cutter.Rect{}, err
		}
		name := strings.TrimSuffix(filepath.Base(output), ".png") + "_preview.png"
		if err := imaging.SavePNG(preview, filepath.Join(diagDir, name)); err != nil {
			return cutter.Rect{}, err
		}
	}
	return rect, nil
}

// Locate finds the crop rectangle for img. ModeIOS works from the image
// size alone; every other mode converts img to luminance and searches it.
func Locate(img image.Image, req cutter.Request, weights luma.Weights, opts ...cutter.Option) (cutter.Rect, error) {
	if !req.Mode.NeedsPixels() {
		if err := req.Validate(); err != nil {
			return cutter.Rect{}, err
		}
		b := img.Bounds()
		return cutter.IOSPoint(b.Dx(), b.Dy(), req.HomebarHeight)
	}
	if weights == (luma.Weights{}) {
		weights = luma.DefaultWeights()
	}
	buf, err := luma.FromImage(img, weights)
	if err != nil {
		return cutter.Rect{}, err
	}
	return cutter.Crop(buf, req, opts...)
}

// errorLine formats one error.txt entry. Multi-line messages are folded
// onto a single line.
func errorLine(input string, err error) string {
	if errors.Is(err, imaging.ErrFileNotFound) {
		return input + " not found"
	}
	msg := strings.NewReplacer("\r\n", "  ", "\n", "  ").Replace(err.Error())
	return input + " " + msg
}

func writeErrorLog(path string, lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ErrorLogName, err)
	}
	return nil
}
