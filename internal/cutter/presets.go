package cutter

import "fmt"

// Base content size at 100% zoom.
const (
	baseWidth  = 960
	baseHeight = 640
)

// DefaultZoom is the zoom percentage used when none is given.
const DefaultZoom = 100

// ZoomPreset is a target size for a browser zoom level.
type ZoomPreset struct {
	Zoom   float64 `json:"zoom"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// NewZoomPreset scales the 960x640 base size by zoom percent, truncating.
func NewZoomPreset(zoom float64) ZoomPreset {
	return ZoomPreset{
		Zoom:   zoom,
		Width:  int(baseWidth * zoom / 100),
		Height: int(baseHeight * zoom / 100),
	}
}

func (z ZoomPreset) String() string {
	return fmt.Sprintf("%g%% (%dx%d)", z.Zoom, z.Width, z.Height)
}

// ZoomPresets returns the common browser zoom levels, largest first.
func ZoomPresets() []ZoomPreset {
	zooms := []float64{150, 125, 110, 100, 90, 75, 50}
	presets := make([]ZoomPreset, len(zooms))
	for i, z := range zooms {
		presets[i] = NewZoomPreset(z)
	}
	return presets
}

// WithZoom fills Width and Height from the zoom preset when neither is set.
// A zero zoom means DefaultZoom.
func (r Request) WithZoom(zoom float64) Request {
	if r.Width != 0 || r.Height != 0 {
		return r
	}
	if zoom == 0 {
		zoom = DefaultZoom
	}
	p := NewZoomPreset(zoom)
	r.Width, r.Height = p.Width, p.Height
	return r
}
