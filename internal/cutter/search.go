package cutter

import (
	"image"
	"math"

	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// Rect is a crop rectangle in source pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds returns the rectangle as an image.Rectangle (Max exclusive).
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// DiagnosticsFunc receives intermediate buffers by name while a search
// runs. The buffer must not be retained past the call if the caller plans
// to mutate it.
type DiagnosticsFunc func(name string, buf *luma.Buffer)

// Option configures a search.
type Option func(*options)

type options struct {
	diag DiagnosticsFunc
}

// WithDiagnostics registers fn to receive the "gray", "dx", "dxSum", "dy",
// "dySum" and (2-D only) "sumTable" buffers.
func WithDiagnostics(fn DiagnosticsFunc) Option {
	return func(o *options) { o.diag = fn }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) emit(name string, buf *luma.Buffer) {
	if o.diag != nil && buf != nil {
		o.diag(name, buf)
	}
}

// Sizes here are always positive, so the buffer is built directly instead
// of going through luma.New.
func alloc(width, height int) *luma.Buffer {
	return &luma.Buffer{Width: width, Height: height, Values: make([]int, width*height)}
}

// diffX scores every horizontally adjacent pair: (W-1) x H.
func diffX(src *luma.Buffer, s Scorer) *luma.Buffer {
	out := alloc(src.Width-1, src.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Put(x, y, s.Score(src.Get(x, y), src.Get(x+1, y)))
		}
	}
	return out
}

// diffY scores every vertically adjacent pair inside columns
// [left, left+width): width x (H-1).
func diffY(src *luma.Buffer, s Scorer, left, width int) *luma.Buffer {
	out := alloc(width, src.Height-1)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Put(x, y, s.Score(src.Get(left+x, y), src.Get(left+x, y+1)))
		}
	}
	return out
}

// bestWindow returns the first index i maximizing sums[i+span]-sums[i].
// ok is false when there is no candidate.
func bestWindow(sums []int, span int) (index, score int, ok bool) {
	score = math.MinInt
	for i := 0; i+span < len(sums); i++ {
		if v := sums[i+span] - sums[i]; v > score {
			index, score, ok = i, v, true
		}
	}
	return index, score, ok
}

// Search2D finds the cutWidth x cutHeight rectangle whose four borders
// collect the highest total score.
//
// When either target dimension equals the source dimension the search
// degrades to Search1D. Ties resolve to the first maximum in row-major
// order.
func Search2D(src *luma.Buffer, cutWidth, cutHeight int, scorer Scorer, opts ...Option) (Rect, error) {
	if err := checkSize(src, cutWidth, cutHeight); err != nil {
		return Rect{}, err
	}
	if err := scorer.validate(); err != nil {
		return Rect{}, err
	}
	if src.Width == cutWidth || src.Height == cutHeight {
		return Search1D(src, cutWidth, cutHeight, scorer, opts...)
	}

	o := newOptions(opts)
	o.emit("gray", src)

	// Horizontal derivative, summed over every cutHeight-tall column window.
	dx := diffX(src, scorer)
	o.emit("dx", dx)

	dxSum := alloc(dx.Width, dx.Height-cutHeight)
	for x := 0; x < dxSum.Width; x++ {
		sum := 0
		for y := 0; y < cutHeight; y++ {
			sum += dx.Get(x, y)
		}
		dxSum.Put(x, 0, sum)
		for y := 1; y < dxSum.Height; y++ {
			sum = sum - dx.Get(x, y-1) + dx.Get(x, y+cutHeight-1)
			dxSum.Put(x, y, sum)
		}
	}
	o.emit("dxSum", dxSum)

	// Vertical derivative, summed over every cutWidth-wide row window.
	dy := diffY(src, scorer, 0, src.Width)
	o.emit("dy", dy)

	dySum := alloc(dy.Width-cutWidth, dy.Height)
	for y := 0; y < dySum.Height; y++ {
		sum := 0
		for x := 0; x < cutWidth; x++ {
			sum += dy.Get(x, y)
		}
		dySum.Put(0, y, sum)
		for x := 1; x < dySum.Width; x++ {
			sum = sum - dy.Get(x-1, y) + dy.Get(x+cutWidth-1, y)
			dySum.Put(x, y, sum)
		}
	}
	o.emit("dySum", dySum)

	// Candidate (x, y) scores the borders at derivative positions x and
	// x+cutWidth, y and y+cutHeight; the crop itself starts one sample later.
	best := Rect{Width: cutWidth, Height: cutHeight}
	tableWidth := src.Width - cutWidth - 1
	tableHeight := src.Height - cutHeight - 1
	if tableWidth <= 0 || tableHeight <= 0 {
		return best, nil
	}

	table := alloc(tableWidth, tableHeight)
	bestScore := math.MinInt
	for y := 0; y < tableHeight; y++ {
		for x := 0; x < tableWidth; x++ {
			v := dxSum.Get(x+cutWidth, y) - dxSum.Get(x, y) +
				dySum.Get(x, y+cutHeight) - dySum.Get(x, y)
			table.Put(x, y, v)
			if v > bestScore {
				bestScore = v
				best.X = x + 1
				best.Y = y + 1
			}
		}
	}
	o.emit("sumTable", table)

	return best, nil
}

// Search1D resolves the horizontal offset from whole-column sums, then the
// vertical offset from row sums restricted to the chosen columns.
//
// For an odd cutHeight a window one sample wider is also tried; if it
// scores strictly higher it is adopted and the returned Width is
// cutWidth+1. An axis that already matches its target keeps offset 0.
func Search1D(src *luma.Buffer, cutWidth, cutHeight int, scorer Scorer, opts ...Option) (Rect, error) {
	if err := checkSize(src, cutWidth, cutHeight); err != nil {
		return Rect{}, err
	}
	if err := scorer.validate(); err != nil {
		return Rect{}, err
	}

	o := newOptions(opts)
	o.emit("gray", src)

	r := Rect{Width: cutWidth, Height: cutHeight}

	if src.Width > cutWidth {
		dx := diffX(src, scorer)
		o.emit("dx", dx)

		cols := make([]int, dx.Width)
		for y := 0; y < dx.Height; y++ {
			for x := range cols {
				cols[x] += dx.Get(x, y)
			}
		}
		if o.diag != nil {
			o.emit("dxSum", stripX(cols))
		}

		if i, score, ok := bestWindow(cols, cutWidth); ok {
			r.X = i + 1
			if cutHeight&1 == 1 {
				if j, wide, ok := bestWindow(cols, cutWidth+1); ok && wide > score {
					r.X = j + 1
					r.Width = cutWidth + 1
				}
			}
		}
	}

	if src.Height > cutHeight {
		dy := diffY(src, scorer, r.X, r.Width)
		o.emit("dy", dy)

		rows := make([]int, dy.Height)
		for y := range rows {
			sum := 0
			for x := 0; x < dy.Width; x++ {
				sum += dy.Get(x, y)
			}
			rows[y] = sum
		}
		if o.diag != nil {
			o.emit("dySum", stripY(rows))
		}

		if i, _, ok := bestWindow(rows, cutHeight); ok {
			r.Y = i + 1
		}
	}

	return r, nil
}

const stripThickness = 100

// stripX repeats a per-column profile down a fixed-height strip.
func stripX(cols []int) *luma.Buffer {
	out := alloc(len(cols), stripThickness)
	for y := 0; y < out.Height; y++ {
		copy(out.Values[y*out.Width:(y+1)*out.Width], cols)
	}
	return out
}

// stripY repeats a per-row profile across a fixed-width strip.
func stripY(rows []int) *luma.Buffer {
	out := alloc(stripThickness, len(rows))
	for y, v := range rows {
		for x := 0; x < out.Width; x++ {
			out.Put(x, y, v)
		}
	}
	return out
}
