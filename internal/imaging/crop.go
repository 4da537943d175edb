package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/aigis-cutter/internal/cutter"
)

// CropResult contains the cropped image data
type CropResult struct {
	Rect        cutter.Rect `json:"rect"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ImageBase64 string      `json:"image_base64,omitempty"`
	MimeType    string      `json:"mime_type,omitempty"`
}

// Extract copies the rectangle r (relative to the image's top-left corner)
// out of img.
func Extract(img image.Image, r cutter.Rect) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 ||
		r.X+r.Width > bounds.Dx() || r.Y+r.Height > bounds.Dy() {
		return nil, fmt.Errorf("crop region (%d,%d) %dx%d outside image %dx%d: %w",
			r.X, r.Y, r.Width, r.Height, bounds.Dx(), bounds.Dy(), cutter.ErrOutOfRange)
	}
	return imaging.Crop(img, r.Bounds().Add(bounds.Min)), nil
}

// EncodeCrop extracts r and returns it as a base64 PNG.
func EncodeCrop(img image.Image, r cutter.Rect) (*CropResult, error) {
	cropped, err := Extract(img, r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Rect:        r,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path as PNG, creating or truncating the file.
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CopyTimestamps stamps dst with the modification time of src. The access
// time is set to the same value since os.FileInfo does not carry it
// portably.
func CopyTimestamps(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return fmt.Errorf("failed to set timestamps: %w", err)
	}
	return nil
}
