package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/aigis-cutter/internal/cutter"
)

func writePanel(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	panel := image.Rect(5, 4, 15, 12)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{200, 200, 200, 255}
			if (image.Point{X: x, Y: y}).In(panel) {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestParseCropFlags_Defaults(t *testing.T) {
	f, rest, err := parseCropFlags([]string{"a.png", "b.png"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, rest)

	req, err := f.request()
	require.NoError(t, err)
	assert.Equal(t, cutter.Request{
		Mode:          cutter.ModePCCount,
		Width:         960,
		Height:        640,
		Delta:         cutter.DefaultDelta,
		HomebarHeight: cutter.DefaultHomebarHeight,
	}, req)
}

func TestParseCropFlags_Overrides(t *testing.T) {
	f, _, err := parseCropFlags([]string{"-mode", "EDGE", "-width", "300", "-height", "200", "-delta", "0"}, &bytes.Buffer{})
	require.NoError(t, err)

	req, err := f.request()
	require.NoError(t, err)
	assert.Equal(t, cutter.ModeEdge, req.Mode)
	assert.Equal(t, 300, req.Width)
	assert.Equal(t, 200, req.Height)
	assert.Equal(t, 0, req.Delta)
}

func TestParseCropFlags_BadMode(t *testing.T) {
	f, _, err := parseCropFlags([]string{"-mode", "tv"}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = f.request()
	assert.ErrorIs(t, err, cutter.ErrInvalidMode)
}

func TestRunCrop(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writePanel(t, filepath.Join(src, "panel.png"))

	var stdout, stderr bytes.Buffer
	code := runCrop([]string{
		"-mode", "pc-square", "-width", "10", "-height", "8",
		"-out", out, "-log-level", "error", "-workers", "1",
		src,
	}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "1 cropped, 0 failed"))
	assert.FileExists(t, filepath.Join(out, "panel.png"))
}

func TestRunCrop_NoInputs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCrop([]string{"-log-level", "error", filepath.Join(t.TempDir(), "none.png")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRunCrop_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, runCrop([]string{"-nope"}, &stdout, &stderr))
}
