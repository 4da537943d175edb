package cutter

import (
	"fmt"
	"strings"

	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// Mode selects a crop strategy.
type Mode int

const (
	// ModePCSquare runs Search2D with RawDiff.
	ModePCSquare Mode = iota + 1
	// ModePCCount runs Search2D with WhiteThresholdCount.
	ModePCCount
	// ModeEdge runs Search1D with BlackThresholdCount at the requested size.
	ModeEdge
	// ModeIOS computes a centered 3:2 crop without searching.
	ModeIOS
	// ModeIOSAndroid runs Search1D with BlackThresholdCount at height*3/2 x height.
	ModeIOSAndroid
)

var modeNames = map[Mode]string{
	ModePCSquare:   "pc-square",
	ModePCCount:    "pc-count",
	ModeEdge:       "edge",
	ModeIOS:        "ios",
	ModeIOSAndroid: "ios-android",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every valid mode name.
func Modes() []string {
	return []string{"pc-square", "pc-count", "edge", "ios", "ios-android"}
}

// ParseMode converts a mode name (case-insensitive) to a Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("mode %q (want one of %s): %w",
		name, strings.Join(Modes(), ", "), ErrInvalidMode)
}

// Defaults used when a request leaves a parameter unset.
const (
	DefaultDelta         = 6
	DefaultHomebarHeight = 32
)

// Request bundles the parameters of one crop.
type Request struct {
	Mode Mode `json:"mode"`

	// Width and Height are the target size for the pc-* and edge modes.
	// The device heuristics derive their own size.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Delta is the tolerance used by the threshold scorers.
	Delta int `json:"delta"`

	// HomebarHeight is the home-indicator strip removed by ModeIOS.
	HomebarHeight int `json:"homebar_height"`
}

// Validate checks the parameters that do not depend on the source image.
func (r Request) Validate() error {
	if _, ok := modeNames[r.Mode]; !ok {
		return fmt.Errorf("mode %v: %w", r.Mode, ErrInvalidMode)
	}
	if r.Delta < 0 {
		return fmt.Errorf("delta %d: %w", r.Delta, ErrOutOfRange)
	}
	if r.HomebarHeight < 0 {
		return fmt.Errorf("homebar height %d: %w", r.HomebarHeight, ErrOutOfRange)
	}
	switch r.Mode {
	case ModePCSquare, ModePCCount, ModeEdge:
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("crop size %dx%d: %w", r.Width, r.Height, ErrOutOfRange)
		}
	}
	return nil
}

// Crop runs the strategy selected by req against src.
func Crop(src *luma.Buffer, req Request, opts ...Option) (Rect, error) {
	if err := req.Validate(); err != nil {
		return Rect{}, err
	}
	if src == nil {
		return Rect{}, fmt.Errorf("empty source buffer: %w", ErrOutOfRange)
	}

	switch req.Mode {
	case ModePCSquare:
		return PCSquare(src, req.Width, req.Height, opts...)
	case ModePCCount:
		return PCCount(src, req.Width, req.Height, req.Delta, opts...)
	case ModeEdge:
		return Search1D(src, req.Width, req.Height, BlackCount(req.Delta), opts...)
	case ModeIOS:
		return IOSPoint(src.Width, src.Height, req.HomebarHeight)
	case ModeIOSAndroid:
		return IOSAndroid(src, req.Delta, opts...)
	}
	return Rect{}, fmt.Errorf("mode %v: %w", req.Mode, ErrInvalidMode)
}

// NeedsPixels reports whether the mode inspects image content. ModeIOS only
// needs the image size.
func (m Mode) NeedsPixels() bool {
	return m != ModeIOS
}
