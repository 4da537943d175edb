package cutter

import (
	"errors"
	"fmt"

	"github.com/ironsheep/aigis-cutter/internal/luma"
)

var (
	// ErrSizeTooLarge means the crop target exceeds the source image.
	ErrSizeTooLarge = errors.New("crop size too large")

	// ErrOutOfRange means a coordinate, size or parameter is outside its
	// valid range. It is the same value as luma.ErrOutOfRange.
	ErrOutOfRange = luma.ErrOutOfRange

	// ErrInvalidMode means no known crop strategy was selected.
	ErrInvalidMode = errors.New("invalid crop mode")
)

// checkSize validates a crop target against the source buffer.
func checkSize(src *luma.Buffer, cutWidth, cutHeight int) error {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return fmt.Errorf("empty source buffer: %w", ErrOutOfRange)
	}
	if cutWidth <= 0 || cutHeight <= 0 {
		return fmt.Errorf("crop size %dx%d: %w", cutWidth, cutHeight, ErrOutOfRange)
	}
	if cutWidth > src.Width || cutHeight > src.Height {
		return fmt.Errorf("crop size %dx%d for image %dx%d: %w",
			cutWidth, cutHeight, src.Width, src.Height, ErrSizeTooLarge)
	}
	return nil
}
