package imaging

import (
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ironsheep/aigis-cutter/internal/cutter"
)

func TestPreview(t *testing.T) {
	img := createInMemoryImage(100, 80, color.RGBA{90, 90, 90, 255})
	rect := cutter.Rect{X: 10, Y: 20, Width: 60, Height: 40}

	result, err := Preview(img, rect, "#00FF00")
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, _ := base64.StdEncoding.DecodeString(result.ImageBase64)
	out, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	// Outline on the right border
	r, g, b, _ := out.At(69, 50).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("outline at (69,50): got (%d,%d,%d), want green", r>>8, g>>8, b>>8)
	}

	// Outside the crop is dimmed
	r, _, _, _ = out.At(5, 5).RGBA()
	if r>>8 != 30 {
		t.Errorf("dimmed pixel: got %d, want 30", r>>8)
	}

	// Inside, away from outline and label, is untouched
	r, _, _, _ = out.At(50, 50).RGBA()
	if r>>8 != 90 {
		t.Errorf("inside pixel: got %d, want 90", r>>8)
	}
}

func TestPreview_InvalidColorFallsBack(t *testing.T) {
	img := createInMemoryImage(30, 30, color.Black)
	rect := cutter.Rect{X: 0, Y: 0, Width: 30, Height: 30}

	canvas, err := PreviewImage(img, rect, "not-a-color")
	if err != nil {
		t.Fatalf("PreviewImage failed: %v", err)
	}
	if got := canvas.RGBAAt(29, 15); got != defaultOutline {
		t.Errorf("outline: got %v, want %v", got, defaultOutline)
	}
}

func TestPreview_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(30, 30, color.Black)

	_, err := Preview(img, cutter.Rect{X: 10, Y: 0, Width: 30, Height: 30}, "")
	if !errors.Is(err, cutter.ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff80", color.RGBA{0, 255, 128, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"", color.RGBA{}, true},
		{"#GG0000", color.RGBA{}, true},
		{"#12", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseHexColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	canvas, _ := PreviewImage(createInMemoryImage(10, 10, color.Black),
		cutter.Rect{X: 0, Y: 0, Width: 10, Height: 10}, "#FF0000")

	// Must not panic when the label runs past the edge.
	drawLabel(canvas, 8, 8, "1234,5678", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
}
