package cutter

import (
	"fmt"

	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// PCSquare crops browser screenshots with the raw-difference 2-D search.
func PCSquare(src *luma.Buffer, width, height int, opts ...Option) (Rect, error) {
	return Search2D(src, width, height, Raw(), opts...)
}

// PCCount crops browser screenshots framed by white UI chrome.
func PCCount(src *luma.Buffer, width, height, delta int, opts ...Option) (Rect, error) {
	return Search2D(src, width, height, WhiteCount(delta), opts...)
}

// IOSAndroid removes black letterbox bars, keeping the full height and a
// 3:2 width.
func IOSAndroid(src *luma.Buffer, delta int, opts ...Option) (Rect, error) {
	if src == nil {
		return Rect{}, fmt.Errorf("empty source buffer: %w", ErrOutOfRange)
	}
	height := src.Height
	return Search1D(src, height*3/2, height, BlackCount(delta), opts...)
}

// IOSPoint computes a 3:2 crop that drops the home-indicator bar.
// It is pure arithmetic on the source size; no pixels are inspected.
//
// Sources wider than 3:2 lose homebarHeight rows and are centered
// horizontally. Otherwise the roles swap: homebarHeight columns are dropped
// from the right, the height follows from the 3:2 ratio and the crop is
// centered vertically.
func IOSPoint(srcWidth, srcHeight, homebarHeight int) (Rect, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return Rect{}, fmt.Errorf("image size %dx%d: %w", srcWidth, srcHeight, ErrOutOfRange)
	}
	if homebarHeight < 0 {
		return Rect{}, fmt.Errorf("homebar height %d: %w", homebarHeight, ErrOutOfRange)
	}

	var r Rect
	if srcWidth > srcHeight*3/2 {
		r.Height = srcHeight - homebarHeight
		r.Width = r.Height * 3 / 2
		r.X = (srcWidth - r.Width) / 2
	} else {
		r.Width = srcWidth - homebarHeight
		r.Height = r.Width * 2 / 3
		r.Y = (srcHeight - r.Height) / 2
	}

	if r.Width <= 0 || r.Height <= 0 {
		return Rect{}, fmt.Errorf("homebar height %d leaves no content in %dx%d image: %w",
			homebarHeight, srcWidth, srcHeight, ErrOutOfRange)
	}
	if r.Width > srcWidth || r.Height > srcHeight {
		return Rect{}, fmt.Errorf("crop size %dx%d for image %dx%d: %w",
			r.Width, r.Height, srcWidth, srcHeight, ErrSizeTooLarge)
	}
	return r, nil
}
