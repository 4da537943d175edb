package luma

import (
	"errors"
	"fmt"
	"image"
)

// ErrOutOfRange reports a sample coordinate or buffer size outside the
// valid range.
var ErrOutOfRange = errors.New("out of range")

// Weights are the per-channel coefficients applied when converting RGB to
// luminance.
type Weights struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// DefaultWeights returns the ITU-R BT.601 luma coefficients.
func DefaultWeights() Weights {
	return Weights{R: 0.299, G: 0.587, B: 0.114}
}

// Luminance converts one RGB sample. The weighted sum is truncated toward
// zero, matching an integer cast.
func (w Weights) Luminance(r, g, b uint8) int {
	return int(w.R*float64(r) + w.G*float64(g) + w.B*float64(b))
}

// Buffer is a 2-D grid of integer intensities stored row-major.
type Buffer struct {
	Width  int
	Height int
	Values []int
}

// New allocates a zero-filled buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer size %dx%d: %w", width, height, ErrOutOfRange)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Values: make([]int, width*height),
	}, nil
}

// FromValues copies values into a new buffer. values must hold at least
// width*height samples; any extra samples are ignored.
func FromValues(values []int, width, height int) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(values) < width*height {
		return nil, fmt.Errorf("have %d values, need %d: %w", len(values), width*height, ErrOutOfRange)
	}
	copy(b.Values, values)
	return b, nil
}

// FromRGB converts a packed RGB buffer to luminance using the given weights.
func FromRGB(rgb *RGB, w Weights) (*Buffer, error) {
	if err := rgb.validate(); err != nil {
		return nil, err
	}
	b, err := New(rgb.Width, rgb.Height)
	if err != nil {
		return nil, err
	}
	for i := range b.Values {
		p := rgb.Pix[i*3 : i*3+3 : i*3+3]
		b.Values[i] = w.Luminance(p[0], p[1], p[2])
	}
	return b, nil
}

// FromImage converts any decoded image to luminance using the given weights.
// Alpha is ignored.
func FromImage(img image.Image, w Weights) (*Buffer, error) {
	rgb, err := RGBFromImage(img)
	if err != nil {
		return nil, err
	}
	return FromRGB(rgb, w)
}

func (b *Buffer) inRange(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the sample at (x, y).
func (b *Buffer) At(x, y int) (int, error) {
	if !b.inRange(x, y) {
		return 0, fmt.Errorf("sample (%d,%d) in %dx%d buffer: %w", x, y, b.Width, b.Height, ErrOutOfRange)
	}
	return b.Values[y*b.Width+x], nil
}

// Set stores value at (x, y).
func (b *Buffer) Set(x, y, value int) error {
	if !b.inRange(x, y) {
		return fmt.Errorf("sample (%d,%d) in %dx%d buffer: %w", x, y, b.Width, b.Height, ErrOutOfRange)
	}
	b.Values[y*b.Width+x] = value
	return nil
}

// Get returns the sample at (x, y) without bounds checking. Callers must
// guarantee 0 <= x < Width and 0 <= y < Height.
func (b *Buffer) Get(x, y int) int {
	return b.Values[y*b.Width+x]
}

// Put stores value at (x, y) without bounds checking.
func (b *Buffer) Put(x, y, value int) {
	b.Values[y*b.Width+x] = value
}

// Sub copies the rectangle (x, y, width, height) into a new buffer.
func (b *Buffer) Sub(x, y, width, height int) (*Buffer, error) {
	if x < 0 || y < 0 || x+width > b.Width || y+height > b.Height {
		return nil, fmt.Errorf("region (%d,%d) %dx%d in %dx%d buffer: %w",
			x, y, width, height, b.Width, b.Height, ErrOutOfRange)
	}
	sub, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for row := 0; row < height; row++ {
		src := b.Values[(y+row)*b.Width+x : (y+row)*b.Width+x+width]
		copy(sub.Values[row*width:(row+1)*width], src)
	}
	return sub, nil
}

// MinMax returns the smallest and largest sample.
func (b *Buffer) MinMax() (min, max int) {
	min, max = b.Values[0], b.Values[0]
	for _, v := range b.Values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// NormalizedBytes linearly rescales [min,max] of the buffer to [0,255].
// When every sample is equal the result is all zeros.
func (b *Buffer) NormalizedBytes() []byte {
	out := make([]byte, len(b.Values))
	min, max := b.MinMax()
	if min == max {
		return out
	}
	span := max - min
	for i, v := range b.Values {
		out[i] = byte(255 * (v - min) / span)
	}
	return out
}

// Gray renders NormalizedBytes as an 8-bit grayscale image.
func (b *Buffer) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.NormalizedBytes())
	return img
}
