package luma

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// RGB is a packed 24-bit pixel buffer: three bytes (R, G, B) per pixel,
// row-major, no padding.
type RGB struct {
	Pix    []byte
	Width  int
	Height int
}

// NewRGB allocates a black RGB buffer.
func NewRGB(width, height int) (*RGB, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rgb size %dx%d: %w", width, height, ErrOutOfRange)
	}
	return &RGB{
		Pix:    make([]byte, width*height*3),
		Width:  width,
		Height: height,
	}, nil
}

// SetRGB stores one pixel.
func (p *RGB) SetRGB(x, y int, r, g, b uint8) error {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return fmt.Errorf("pixel (%d,%d) in %dx%d image: %w", x, y, p.Width, p.Height, ErrOutOfRange)
	}
	i := (y*p.Width + x) * 3
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = r, g, b
	return nil
}

func (p *RGB) validate() error {
	if p == nil || p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("empty rgb buffer: %w", ErrOutOfRange)
	}
	if len(p.Pix) < p.Width*p.Height*3 {
		return fmt.Errorf("rgb buffer has %d bytes, need %d: %w", len(p.Pix), p.Width*p.Height*3, ErrOutOfRange)
	}
	return nil
}

// RGBFromImage flattens a decoded image into a packed RGB buffer, dropping
// alpha. The image origin does not need to be (0,0).
func RGBFromImage(img image.Image) (*RGB, error) {
	bounds := img.Bounds()
	out, err := NewRGB(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rgba := clone.AsRGBA(img)
	min := rgba.Bounds().Min
	for y := 0; y < out.Height; y++ {
		src := rgba.Pix[rgba.PixOffset(min.X, min.Y+y):]
		dst := out.Pix[y*out.Width*3:]
		for x := 0; x < out.Width; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return out, nil
}
