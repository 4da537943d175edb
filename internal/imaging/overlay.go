package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/aigis-cutter/internal/cutter"
)

// PreviewResult contains the source image with the chosen crop outlined.
type PreviewResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Rect        cutter.Rect `json:"rect"`
	ImageBase64 string      `json:"image_base64"`
	MimeType    string      `json:"mime_type"`
}

const outlineThickness = 2

var defaultOutline = color.RGBA{255, 0, 0, 255}

// Preview draws r onto a copy of img: the area outside the crop is dimmed,
// the crop border is outlined and its origin and size are labelled.
func Preview(img image.Image, r cutter.Rect, outlineHex string) (*PreviewResult, error) {
	canvas, err := PreviewImage(img, r, outlineHex)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreviewResult{
		Width:       canvas.Bounds().Dx(),
		Height:      canvas.Bounds().Dy(),
		Rect:        r,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// PreviewImage is Preview without the PNG encoding. The returned image
// starts at (0,0).
func PreviewImage(img image.Image, r cutter.Rect, outlineHex string) (*image.RGBA, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 ||
		r.X+r.Width > width || r.Y+r.Height > height {
		return nil, fmt.Errorf("crop region (%d,%d) %dx%d outside image %dx%d: %w",
			r.X, r.Y, r.Width, r.Height, width, height, cutter.ErrOutOfRange)
	}

	outline, err := parseHexColor(outlineHex)
	if err != nil {
		outline = defaultOutline
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	inside := r.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (image.Point{X: x, Y: y}).In(inside) {
				continue
			}
			i := result.PixOffset(x, y)
			result.Pix[i] /= 3
			result.Pix[i+1] /= 3
			result.Pix[i+2] /= 3
		}
	}

	// Outline drawn just inside the crop so it survives at image edges.
	for t := 0; t < outlineThickness; t++ {
		for x := inside.Min.X; x < inside.Max.X; x++ {
			result.SetRGBA(x, inside.Min.Y+t, outline)
			result.SetRGBA(x, inside.Max.Y-1-t, outline)
		}
		for y := inside.Min.Y; y < inside.Max.Y; y++ {
			result.SetRGBA(inside.Min.X+t, y, outline)
			result.SetRGBA(inside.Max.X-1-t, y, outline)
		}
	}

	label := fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
	drawLabel(result, inside.Min.X+outlineThickness+2, inside.Min.Y+outlineThickness+2,
		label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})

	return result, nil
}

// parseHexColor parses "#RRGGBB" or "#RGB".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// drawLabel draws a text label with a 3x5 pixel font. Unknown characters
// advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'x': {"000", "101", "010", "101", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if (image.Point{X: px, Y: py}).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if (image.Point{X: px, Y: py}).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
