package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// Diverging palette for signed buffers: negative -> cold, zero -> neutral,
// positive -> warm.
var (
	heatCold    = colorful.Color{R: 0.230, G: 0.299, B: 0.754}
	heatNeutral = colorful.Color{R: 0.865, G: 0.865, B: 0.865}
	heatWarm    = colorful.Color{R: 0.706, G: 0.016, B: 0.150}
)

// Heatmap renders a buffer with a diverging colour scale centred on zero,
// which keeps the sign of derivative buffers visible. A buffer of zeros
// renders uniformly neutral.
func Heatmap(buf *luma.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	min, max := buf.MinMax()
	span := max
	if -min > span {
		span = -min
	}

	for i, v := range buf.Values {
		c := heatNeutral
		if span > 0 {
			t := float64(v) / float64(span)
			if t < 0 {
				c = heatNeutral.BlendLab(heatCold, -t)
			} else {
				c = heatNeutral.BlendLab(heatWarm, t)
			}
		}
		r, g, b := c.Clamped().RGB255()
		img.Pix[i*4] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

// DiagnosticsWriter saves intermediate search buffers as PNG files named
// "<Base>_<name>.png" in Dir. Its Write method has the signature of
// cutter.DiagnosticsFunc.
//
// Grayscale output uses luma.Buffer.NormalizedBytes and is reproducible
// for golden-image comparisons; Heatmap output is for reading by eye.
type DiagnosticsWriter struct {
	Dir     string
	Base    string
	Heatmap bool

	mu      sync.Mutex
	written []string
	err     error
}

// Write renders and saves one buffer. The first failure is kept and
// reported by Err; later buffers are still attempted.
func (w *DiagnosticsWriter) Write(name string, buf *luma.Buffer) {
	path := filepath.Join(w.Dir, fmt.Sprintf("%s_%s.png", w.Base, name))

	var img image.Image
	if w.Heatmap && name != "gray" {
		img = Heatmap(buf)
	} else {
		img = buf.Gray()
	}

	err := os.MkdirAll(w.Dir, 0o755)
	if err == nil {
		err = imgio.Save(path, img, imgio.PNGEncoder())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		if w.err == nil {
			w.err = fmt.Errorf("failed to write diagnostics %s: %w", name, err)
		}
		return
	}
	w.written = append(w.written, path)
}

// Written returns the paths saved so far.
func (w *DiagnosticsWriter) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}

// Err returns the first write failure, if any.
func (w *DiagnosticsWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
